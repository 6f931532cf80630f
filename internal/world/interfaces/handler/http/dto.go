package http

import "Arcanus/internal/world/entity"

type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

func Success(code int, data any) Response {
	return Response{Code: code, Data: data}
}

func Error(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}

type PlayerSeedReq struct {
	PlayerID entity.PlayerID `json:"player_id" binding:"required"`
	Name     string          `json:"name"`
	Human    bool            `json:"human"`
}

type CreateSessionReq struct {
	Players  []PlayerSeedReq          `json:"players" binding:"required,min=1,dive"`
	Map      *entity.CoordinateSystem `json:"map"`
	FogOfWar *entity.FogOfWarSettings `json:"fog_of_war"`
	TileType entity.TileTypeID        `json:"tile_type"`
}

type SetTerrainReq struct {
	Location   entity.Coordinates  `json:"location"`
	TileType   entity.TileTypeID   `json:"tile_type" binding:"required"`
	MapFeature entity.MapFeatureID `json:"map_feature"`
	NodeOwner  entity.PlayerID     `json:"node_owner"`
}

type SetCityReq struct {
	Location entity.Coordinates `json:"location"`
	City     entity.CityData    `json:"city"`
}

type LocationReq struct {
	Location entity.Coordinates `json:"location"`
}

type AddBuildingsReq struct {
	CityLocation entity.Coordinates  `json:"city_location"`
	BuildingIDs  []entity.BuildingID `json:"building_ids" binding:"required,min=1"`
}

type DestroyBuildingsReq struct {
	BuildingURNs []entity.BuildingURN `json:"building_urns" binding:"required,min=1"`
	Sold         bool                 `json:"sold"`
}

type MoveUnitStackReq struct {
	UnitURNs []entity.UnitURN     `json:"unit_urns" binding:"required,min=1"`
	From     entity.Coordinates   `json:"from"`
	Path     []entity.Coordinates `json:"path" binding:"required,min=1"`
}

type EndCombatReq struct {
	Location    entity.Coordinates `json:"location"`
	WinningSide entity.CombatSide  `json:"winning_side"`
}

type TokenResp struct {
	Token string `json:"token"`
}
