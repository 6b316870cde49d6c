// Copyright (c) 2021 LabStack, see https://github.com/labstack/echo/blob/master/LICENSE.
// Portions of this code were derived from the Echo project (https://github.com/labstack/echo)
// under the MIT License.

package routef

// MIME types
const (
	charsetUTF8                    = "charset=utf-8"
	MIMEApplicationJSON            = "application/json"
	MIMEApplicationJSONCharsetUTF8 = MIMEApplicationJSON + "; " + charsetUTF8
	MIMETextPlain                  = "text/plain"
	MIMETextPlainCharsetUTF8       = MIMETextPlain + "; " + charsetUTF8
)

// Headers
const (
	HeaderContentType = "Content-Type"
	HeaderLocation    = "Location"
)
