package repository

import "Kyusei-App/internal/domain/model"

// applyLocationInput nil 以外の項目だけを反映する
func applyLocationInput(loc *model.Location, input *model.LocationInput) {
	if input == nil {
		return
	}
	if input.Name != nil {
		loc.Name = *input.Name
	}
	if input.Address != nil {
		loc.Address = *input.Address
	}
	if input.Latitude != nil {
		loc.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		loc.Longitude = *input.Longitude
	}
	if input.Elevation != nil {
		v := *input.Elevation
		loc.Elevation = &v
	}
}

func applyMarkerInput(m *model.Marker, input *model.MarkerInput) {
	if input == nil {
		return
	}
	if input.LocationID != nil {
		v := *input.LocationID
		m.LocationID = &v
	}
	if input.Latitude != nil {
		m.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		m.Longitude = *input.Longitude
	}
	if input.Type != nil {
		m.Type = *input.Type
	}
	if input.IsActive != nil {
		m.IsActive = *input.IsActive
	}
}

func mergeUserProfile(dst, src *model.UserProfile) {
	if src.BirthDate != nil {
		v := *src.BirthDate
		dst.BirthDate = &v
	}
	if src.HomeStar != nil {
		v := *src.HomeStar
		dst.HomeStar = &v
	}
	if src.HomeLat != nil {
		v := *src.HomeLat
		dst.HomeLat = &v
	}
	if src.HomeLng != nil {
		v := *src.HomeLng
		dst.HomeLng = &v
	}
}
