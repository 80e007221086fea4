package helper

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/stretchr/testify/assert"

	"Kyusei-App/internal/domain/model"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	points := []model.Position{
		{Lat: 35.6812, Lng: 139.7671},
		{Lat: 0, Lng: 0},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 89.9, Lng: -179.9},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, Distance(p, p))
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := model.Position{Lat: 35.6812, Lng: 139.7671}
	b := model.Position{Lat: 34.6937, Lng: 135.5023}

	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-6)
	// 東京-大阪はおよそ400km
	assert.InDelta(t, 400000, Distance(a, b), 10000)
}

func TestDistance_MatchesOrbHaversineScaled(t *testing.T) {
	a := model.Position{Lat: 35.0, Lng: 135.0}
	b := model.Position{Lat: 36.2, Lng: 137.5}

	// orb は地球半径 6378137m を使うため比率で補正する
	expected := geo.DistanceHaversine(a.ToPoint(), b.ToPoint()) * EarthRadiusMeters / orb.EarthRadius
	assert.InEpsilon(t, expected, Distance(a, b), 1e-9)
}

func TestBearing_Cardinal(t *testing.T) {
	origin := model.Position{Lat: 35.0, Lng: 135.0}

	tests := []struct {
		name     string
		to       model.Position
		expected float64
	}{
		{"北", model.Position{Lat: 36.0, Lng: 135.0}, 0},
		{"東", model.Position{Lat: 35.0, Lng: 135.01}, 90},
		{"南", model.Position{Lat: 34.0, Lng: 135.0}, 180},
		{"西", model.Position{Lat: 35.0, Lng: 134.99}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Bearing(origin, tt.to), 0.01)
		})
	}
}

func TestBearing_RangeAndOrbAgreement(t *testing.T) {
	origin := model.Position{Lat: 35.6812, Lng: 139.7287}
	for deg := 0.0; deg < 360; deg += 7.5 {
		target := Destination(origin, deg, 50000)
		b := Bearing(origin, target)
		assert.GreaterOrEqual(t, b, 0.0)
		assert.Less(t, b, 360.0)

		orbBearing := NormalizeDegrees(geo.Bearing(origin.ToPoint(), target.ToPoint()))
		diff := math.Abs(b - orbBearing)
		if diff > 180 {
			diff = 360 - diff
		}
		assert.InDelta(t, 0, diff, 1e-6)
	}
}

func TestBearing_SamePointFallsBackToZero(t *testing.T) {
	p := model.Position{Lat: 35.0, Lng: 135.0}
	assert.Equal(t, 0.0, Bearing(p, p))
}

func TestDestination_RoundTrip(t *testing.T) {
	origin := model.Position{Lat: 35.0, Lng: 135.0}

	dest := Destination(origin, 90, 10000)
	assert.InDelta(t, 90, Bearing(origin, dest), 0.5)
	assert.InDelta(t, 10000, Distance(origin, dest), 1)

	for _, bearing := range []float64{0, 45, 135, 200, 315, 359} {
		for _, d := range []float64{100, 10000, 120000} {
			dest := Destination(origin, bearing, d)
			got := Bearing(origin, dest)
			diff := math.Abs(got - bearing)
			if diff > 180 {
				diff = 360 - diff
			}
			assert.InDelta(t, 0, diff, 0.5, "bearing=%v d=%v", bearing, d)
			assert.InDelta(t, d, Distance(origin, dest), 1, "bearing=%v d=%v", bearing, d)
		}
	}
}

func TestNormalizeDegrees(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeDegrees(0))
	assert.Equal(t, 0.0, NormalizeDegrees(360))
	assert.Equal(t, 345.0, NormalizeDegrees(-15))
	assert.Equal(t, 15.0, NormalizeDegrees(375))
	assert.Equal(t, 90.0, NormalizeDegrees(-270))
}

func TestKmToDegrees(t *testing.T) {
	assert.InDelta(t, 1.0, KmToDegreesLat(111.32), 1e-12)
	// 赤道では経度も同じ
	assert.InDelta(t, 1.0, KmToDegreesLng(111.32, 0), 1e-12)
	// 緯度60度では経度1度が半分の距離になる
	assert.InDelta(t, 2.0, KmToDegreesLng(111.32, 60), 1e-9)
}

func TestMockElevation(t *testing.T) {
	assert.Equal(t, 65.0, MockElevation(0, 0))
	assert.GreaterOrEqual(t, MockElevation(35.6812, 139.7671), 0.0)

	v := MockElevation(35.6812, 139.7671)
	assert.Equal(t, math.Round(v*1000)/1000, v)
}
