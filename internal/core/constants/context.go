package constants

const (
	ContextRequestIdKey = "request_id" // generated by the request middleware for every API call
)
