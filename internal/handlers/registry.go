package handlers

// AppHandlers holds every HTTP handler of the application.
// FileHandler is nil unless the storage backend is local.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	CompanyHandler     *CompanyHandler
	JobHandler         *JobHandler
	ApplicationHandler *ApplicationHandler
	DocumentHandler    *DocumentHandler
	SavedJobHandler    *SavedJobHandler
	FileHandler        *FileHandler
}
