package form

import "fmt"

// UnsupportedContentTypeError reports a request body the parser has no
// branch for. The Error text is returned verbatim to the caller.
type UnsupportedContentTypeError struct {
	ContentType string
}

func (e *UnsupportedContentTypeError) Error() string {
	ct := e.ContentType
	if ct == "" {
		ct = "(none)"
	}
	return fmt.Sprintf("Unsupported Content-Type: %s.", ct)
}

// EmptyMultipartError reports a multipart body that yielded no fields or
// files in either parse mode. Length is the decoded byte length of the body
// so payload-size problems are diagnosable from the response alone.
type EmptyMultipartError struct {
	Length int
}

func (e *EmptyMultipartError) Error() string {
	return fmt.Sprintf("Empty multipart payload (length=%d bytes).", e.Length)
}
