package adminapi

// Init registers every admin api route on the web server
func Init() {
	registerSessionRoutes()
	registerProductRoutes()
	registerCategoryRoutes()
	registerReportRoutes()
	registerSchedulerRoutes()
}
