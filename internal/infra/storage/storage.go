package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// objectName names a blob after its content hash so that re-uploads of the
// same file share one object.
func objectName(sum uint64, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		ext = ".bin"
	}
	return fmt.Sprintf("%016x%s", sum, ext)
}

func cleanFolder(folder string) string {
	return strings.Trim(filepath.ToSlash(filepath.Clean("/"+folder)), "/")
}
