package server

const (
	OperationList       = "list"
	OperationUpload     = "upload"
	OperationDownload   = "download"
	LogDirectoryListed  = "Directory listed"
	LogFileUploaded     = "File uploaded"
	LogFileDownloaded   = "File downloaded"
	LogRequestServed    = "Request served"
	QueryParamPath      = "path"
	QueryParamDepth     = "depth"
	FormParamFile       = "file"
	DefaultListPath     = ""
	DefaultUploadPath   = "/"
	DefaultDepth        = 0
	HeaderRequestID     = "X-Request-ID"
	HeaderDisposition   = "Content-Disposition"
	DispositionTemplate = "attachment; filename*=UTF-8''%s"
	unknownRoute        = "unmatched"
)
