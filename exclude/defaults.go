package exclude

import "path/filepath"

// defaultPaths returns the directories excluded out of the box on the given platform.
// They hold caches, system files, temp data and trash, none of which is useful to find by name.
func defaultPaths(goos string, home string) []string {
	var paths []string
	homeRelative := func(parts ...string) {
		if home == "" {
			return
		}
		paths = append(paths, filepath.Join(append([]string{home}, parts...)...))
	}

	switch goos {
	case "windows":
		homeRelative("AppData")
		homeRelative(".gradle")
		homeRelative(".m2")
		paths = append(paths,
			`C:\Windows`,
			`C:\Program Files`,
			`C:\Program Files (x86)`,
			`C:\System Volume Information`,
			`C:\Temp`,
			`C:\$Recycle.Bin`,
		)
	case "darwin":
		homeRelative("Library", "Caches")
		homeRelative(".Trash")
		homeRelative(".gradle")
		homeRelative(".m2")
		paths = append(paths,
			"/System",
			"/private/tmp",
			"/private/var",
			"/Volumes/.timemachine",
			"/dev",
		)
	default:
		homeRelative(".cache")
		homeRelative(".local", "share", "Trash")
		homeRelative(".gradle")
		homeRelative(".m2")
		paths = append(paths,
			"/proc",
			"/sys",
			"/dev",
			"/run",
			"/tmp",
			"/var/tmp",
			"/var/cache",
			"/lost+found",
		)
	}
	return paths
}
