package source

import (
	"os"
	"path/filepath"
	"strings"
)

// Discover lists consolidation candidates in folder: .xlsx and .xlsm always
// included, .xls included only when includeXLS is set, lock files (names
// starting with "~$") always excluded. Workbooks written by earlier runs are
// not recognised and are listed like any other source. Grounded on the original Excel-Consolidator's _get_excel_files.
func Discover(folder string, includeXLS bool) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		switch ext {
		case ".xlsx", ".xlsm":
			files = append(files, filepath.Join(folder, name))
		case ".xls":
			if includeXLS {
				files = append(files, filepath.Join(folder, name))
			}
		}
	}
	return files, nil
}

// IsLegacyXLS reports whether path has the legacy binary .xls extension,
// which excelize cannot read. SourceReader uses this to record a skip
// rather than attempt an open that is guaranteed to fail.
func IsLegacyXLS(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".xls"
}
