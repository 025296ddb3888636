// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	ConfigLoadFailedId Id = iota + 1
	DiscoveryFailedId
	BulkCommandMissingId
	ModulesFailedId
	InstallFailedId
	LinkFailedId
	CommandNotFoundId
)

type (
	// Id identifies one entry of the issue catalog.
	Id int

	// MarkdownMsg is Markdown guidance shown to the user.
	MarkdownMsg string

	// Issue is a catalog entry: remediation text for one class of failure.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

// Id returns the catalog identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the guidance for a terminal using a glamour style name
// ("auto", "dark", "light", "notty") or a path to a style file.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

## Things you can try
- Check the syntax of ` + "`aperture.cue`" + ` in your project root
- Compare your keys with the output of ` + "`aperture config`" + `
- Unset ` + "`APERTURE_*`" + ` environment variables you did not mean to set`,
	}

	discoveryFailedIssue = &Issue{
		id: DiscoveryFailedId,
		mdMsg: `
# Modules could not be discovered

## Things you can try
- Pass the project root explicitly with ` + "`--cwd`" + `
- Check that every ` + "`package.json`" + ` below the root is valid JSON
- Narrow the ` + "`sources`" + ` globs in ` + "`aperture.cue`",
	}

	bulkCommandMissingIssue = &Issue{
		id: BulkCommandMissingId,
		mdMsg: `
# No command given to run in bulk

Everything after the command name is run in each module:

    aperture bulk npm test
    aperture each -- npm run build --if-present`,
	}

	modulesFailedIssue = &Issue{
		id: ModulesFailedId,
		mdMsg: `
# Some modules failed

The command exited with a non-zero status in at least one module.

## Things you can try
- Re-run with ` + "`--bail`" + ` to stop at the first failure
- Run the command by hand inside the failing module directory`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Dependencies could not be installed

## Things you can try
- Check that the install command (` + "`install.command`" + `) is on your PATH
- Run it by hand inside the failing module to see the registry error`,
	}

	linkFailedIssue = &Issue{
		id: LinkFailedId,
		mdMsg: `
# Modules could not be linked

## Things you can try
- Check that you can write to the link directory (` + "`link_dir`" + `)
- Give modules unique ` + "`name`" + ` fields in their ` + "`package.json`",
	}

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Executable not found

The command could not be started in a module.

## Things you can try
- Check that the executable is installed and on your PATH
- Use a shell for pipelines: ` + "`aperture bulk sh -c 'npm test | tee log'`",
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		discoveryFailedIssue.Id():    discoveryFailedIssue,
		bulkCommandMissingIssue.Id(): bulkCommandMissingIssue,
		modulesFailedIssue.Id():      modulesFailedIssue,
		installFailedIssue.Id():      installFailedIssue,
		linkFailedIssue.Id():         linkFailedIssue,
		commandNotFoundIssue.Id():    commandNotFoundIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// RenderMarkdown renders arbitrary Markdown with the same renderer as the
// catalog entries.
func RenderMarkdown(md, stylePath string) (string, error) {
	return render(md, stylePath)
}
