package types

type BasePageData struct {
	Title string
}

type IndexPageData struct {
	BasePageData
	Today string
}

type TodayPageData struct {
	BasePageData
	Today   string
	Records []*LeaveRecord
}

type ErrorPageData struct {
	BasePageData
	Message string
}
