package response

type DashboardResponse struct {
	TotalRooms       int64             `json:"total_rooms"`
	AvailableRooms   int64             `json:"available_rooms"`
	TotalUsers       int64             `json:"total_users"`
	BookingsByStatus map[string]int64  `json:"bookings_by_status"`
	TotalRevenue     float64           `json:"total_revenue"`
	Currency         string            `json:"currency"`
	CheckInsToday    int64             `json:"check_ins_today"`
	CheckOutsToday   int64             `json:"check_outs_today"`
	OccupancyRate    float64           `json:"occupancy_rate"`
	RecentBookings   []BookingResponse `json:"recent_bookings"`
}
