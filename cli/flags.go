package cli

var (
	verbose bool

	// for run and replay commands
	profilePath string
	eventsPath  string
	backendName string

	// for replay command
	replayPaced  bool
	replayDryRun bool

	// for profile dryrun command
	dryrunBinding string
)
