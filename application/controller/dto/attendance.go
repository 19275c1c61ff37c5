package dto

type ListStudentsDTO struct {
	Grade    string `form:"grade"`
	PageSize int64  `form:"pageSize,default=50"`
	Page     int64  `form:"page,default=0"`
}

type AttendanceHistoryDTO struct {
	From string `form:"from"` // 2006-01-02, inclusive
	To   string `form:"to"`   // 2006-01-02, inclusive
}

type DailyRosterDTO struct {
	Day   string `form:"day"` // defaults to today
	Grade string `form:"grade"`
}
