// ABOUTME: Version constants
// ABOUTME: Product identification for logs and backend headers
package version

const (
	// Version is the current release version
	Version = "0.2.0"

	// Product is the product name
	Product = "LingoPop"

	// Manufacturer identifies the project
	Manufacturer = "LingoPop Project"
)
