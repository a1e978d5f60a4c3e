// Package sanitizer normalises user input before validation and masks
// personal data before it leaves the service.
//
// Helpers are small pure functions over strings. Apply and Compose chain them:
//
//	clean := sanitizer.Compose(sanitizer.Trim, sanitizer.CollapseWhitespace)
//	name := clean(in.Name)
package sanitizer
