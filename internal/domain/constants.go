package domain

const (
	PathEmpty           = ""
	PathCurrent         = "."
	PathRoot            = "/"
	PathTraversalPrefix = ".."
	PathSeparators      = `/\`
	MIMEOctetStream     = "application/octet-stream"
	MIMEJSON            = "application/json"
)
