package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"Kyusei-App/internal/domain/helper"
	"Kyusei-App/internal/domain/model"
)

func TestOctantOf(t *testing.T) {
	cases := []struct {
		bearing float64
		want    string
	}{
		{0, model.DirectionNorth},
		{359.9, model.DirectionNorth},
		{337.5, model.DirectionNorth},
		{22.4, model.DirectionNorth},
		{22.5, model.DirectionNorthEast},
		{90, model.DirectionEast},
		{112.5, model.DirectionSouthEast},
		{180, model.DirectionSouth},
		{202.5, model.DirectionSouthWest},
		{270, model.DirectionWest},
		{300, model.DirectionNorthWest},
		{-45, model.DirectionNorthWest},
		{405, model.DirectionNorthEast},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, OctantOf(tc.bearing).Name, "bearing=%v", tc.bearing)
	}
}

func TestGetFengShuiDirection(t *testing.T) {
	north := GetFengShuiDirection(10)
	assert.Equal(t, model.DirectionNorth, north.Primary)
	assert.Equal(t, model.ElementWater, north.Element)
	assert.Equal(t, model.FortuneNeutral, north.Fortune)

	ne := GetFengShuiDirection(45)
	assert.Equal(t, model.ElementEarth, ne.Element)
	assert.Equal(t, model.FortuneInauspicious, ne.Fortune)

	south := GetFengShuiDirection(180)
	assert.Equal(t, model.ElementFire, south.Element)
	assert.Equal(t, model.FortuneAuspicious, south.Fortune)

	nw := GetFengShuiDirection(315)
	assert.Equal(t, model.ElementMetal, nw.Element)
	assert.Equal(t, model.FortuneAuspicious, nw.Fortune)
}

func TestCalculateOptimalPosition(t *testing.T) {
	center := model.Position{Lat: 35.6812, Lng: 139.7671}

	north := CalculateOptimalPosition(center, model.DirectionNorth)
	assert.InDelta(t, 100, helper.Distance(center, north), 0.01)
	assert.InDelta(t, 0, helper.Bearing(center, north), 1e-6)

	east := CalculateOptimalPosition(center, model.DirectionEast)
	assert.InDelta(t, 90, helper.Bearing(center, east), 0.01)

	// 不明な方位は南東
	unknown := CalculateOptimalPosition(center, "北北東")
	assert.Equal(t, CalculateOptimalPosition(center, model.DirectionSouthEast), unknown)
}
