// Package kind labels search results by file type, based on name alone.
package kind

import (
	"path/filepath"
	"strings"
)

// Unknown is returned for names without a recognized extension.
const Unknown = "Unknown"

// ExtensionToKind maps lower-case file extensions (without dot) to a display label.
var ExtensionToKind = map[string]string{
	// Documents
	"pdf": "PDF", "doc": "Document", "docx": "Document", "odt": "Document", "rtf": "Document",
	"txt": "Text", "md": "Markdown", "rst": "Text", "tex": "LaTeX", "epub": "E-book",
	// Spreadsheets / presentations
	"xls": "Spreadsheet", "xlsx": "Spreadsheet", "ods": "Spreadsheet", "csv": "CSV",
	"ppt": "Presentation", "pptx": "Presentation", "odp": "Presentation", "key": "Presentation",
	// Images
	"png": "Image", "jpg": "Image", "jpeg": "Image", "gif": "Image", "bmp": "Image",
	"webp": "Image", "tiff": "Image", "heic": "Image", "svg": "SVG", "ico": "Icon", "psd": "Photoshop",
	// Audio / video
	"mp3": "Audio", "wav": "Audio", "flac": "Audio", "ogg": "Audio", "m4a": "Audio",
	"mp4": "Video", "mkv": "Video", "avi": "Video", "mov": "Video", "webm": "Video",
	// Archives / disk images
	"zip": "Archive", "tar": "Archive", "gz": "Archive", "tgz": "Archive", "bz2": "Archive",
	"xz": "Archive", "7z": "Archive", "rar": "Archive", "zst": "Archive",
	"iso": "Disk image", "dmg": "Disk image", "img": "Disk image",
	// Executables / packages
	"exe": "Executable", "msi": "Installer", "deb": "Package", "rpm": "Package",
	"apk": "Package", "appimage": "Executable", "jar": "Java archive",
	// Source code
	"go": "Go", "py": "Python", "js": "JavaScript", "ts": "TypeScript", "java": "Java",
	"rs": "Rust", "c": "C", "h": "C", "cpp": "C++", "cs": "C#", "rb": "Ruby", "php": "PHP",
	"sh": "Shell", "ps1": "PowerShell", "html": "HTML", "css": "CSS", "sql": "SQL",
	// Data / config
	"json": "JSON", "yaml": "YAML", "yml": "YAML", "toml": "TOML", "xml": "XML", "ini": "INI",
	"log": "Log", "db": "Database", "sqlite": "Database",
}

// Detect returns the display label for a file path based on its extension.
// Returns Unknown if the extension is not recognized.
func Detect(filePath string) string {
	base := strings.ToLower(filepath.Base(filePath))
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	if ext == "" || ext == strings.TrimPrefix(base, ".") {
		// Check filename-based detection (e.g., Makefile, Dockerfile)
		switch base {
		case "makefile", "gnumakefile":
			return "Makefile"
		case "dockerfile":
			return "Dockerfile"
		case ".gitignore", ".gitattributes":
			return "Git Config"
		case ".env":
			return "Env"
		}
		return Unknown
	}

	if label, ok := ExtensionToKind[ext]; ok {
		return label
	}
	return Unknown
}
