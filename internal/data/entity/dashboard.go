package entity

type DashboardStats struct {
	TotalRooms       int64
	AvailableRooms   int64
	TotalUsers       int64
	BookingsByStatus map[BookingStatus]int64
	TotalRevenue     float64
	CheckInsToday    int64
	CheckOutsToday   int64
	OccupiedToday    int64
}

// OccupancyRate is the share of rooms occupied tonight, 0 when there are no rooms.
func (s *DashboardStats) OccupancyRate() float64 {
	if s.TotalRooms == 0 {
		return 0
	}
	return float64(s.OccupiedToday) / float64(s.TotalRooms)
}
