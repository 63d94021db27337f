// Package scan lists image files for the bulk-create pipeline and watches
// a directory for files that appear while a session is running.
package scan
