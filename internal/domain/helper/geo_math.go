package helper

import (
	"math"

	"Kyusei-App/internal/domain/model"
)

// EarthRadiusMeters 球体近似の地球半径。距離・方位・投影はすべてこの値を使う
const EarthRadiusMeters = 6371000.0

// KmPerDegreeLat 緯度1度あたりの距離（km）の近似値
const KmPerDegreeLat = 111.32

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

// NormalizeDegrees 角度を [0,360) に正規化する
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d -= 360
	}
	return d
}

// Distance は2地点間の距離をHaversine公式で計算する（メートル）
func Distance(p1, p2 model.Position) float64 {
	lat1 := toRadians(p1.Lat)
	lat2 := toRadians(p2.Lat)
	dLat := toRadians(p2.Lat - p1.Lat)
	dLng := toRadians(p2.Lng - p1.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Bearing は from から to への初期方位角を [0,360) で返す。
// from == to のときは atan2(0,0) により 0 を返す
func Bearing(from, to model.Position) float64 {
	lat1 := toRadians(from.Lat)
	lat2 := toRadians(to.Lat)
	dLng := toRadians(to.Lng - from.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	return NormalizeDegrees(toDegrees(math.Atan2(y, x)))
}

// Destination は origin から方位角 bearingDeg へ distanceMeters 進んだ地点を返す
func Destination(origin model.Position, bearingDeg, distanceMeters float64) model.Position {
	lat1 := toRadians(origin.Lat)
	lng1 := toRadians(origin.Lng)
	theta := toRadians(bearingDeg)
	delta := distanceMeters / EarthRadiusMeters

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(theta))
	lng2 := lng1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)

	return model.Position{Lat: toDegrees(lat2), Lng: toDegrees(lng2)}
}

// KmToDegreesLat km を緯度差（度）に換算する
func KmToDegreesLat(km float64) float64 {
	return km / KmPerDegreeLat
}

// KmToDegreesLng km を指定緯度での経度差（度）に換算する
func KmToDegreesLng(km, lat float64) float64 {
	return km / (KmPerDegreeLat * math.Cos(toRadians(lat)))
}

// MockElevation 標高の簡易モック（メートル、小数第3位まで）
func MockElevation(lat, lng float64) float64 {
	elevation := math.Max(0, 50+math.Sin(lat*10)*20+math.Cos(lng*10)*15)
	return math.Round(elevation*1000) / 1000
}
