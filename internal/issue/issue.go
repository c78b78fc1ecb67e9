// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	DownloadFailedId Id = iota + 1
	ChecksumMismatchId
	ArchiveCorruptId
	ArchiveUnsafeId
	ToolchainMissingId
	BuildStepFailedId
	RecipeParseErrorId
	RecipeNotFoundId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // links into project docs, empty until the docs site exists
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	downloadFailedIssue = &Issue{
		id: DownloadFailedId,
		mdMsg: `
# Download failed!

The source archive could not be downloaded.

## Common causes:
- No network connectivity
- The release server is down or the URL has moved
- A proxy or firewall is blocking the request

## Things you can try:
- Check your network connection
- Verify the URL resolves:
~~~
$ curl -IL <url>
~~~

- Increase the timeout in your config:
~~~cue
network: timeout: "15m"
~~~

- Retry later; release mirrors are occasionally flaky`,
	}

	checksumMismatchIssue = &Issue{
		id: ChecksumMismatchId,
		mdMsg: `
# Checksum mismatch!

The downloaded archive does not match its expected SHA-256 digest.
The file was discarded.

## Common causes:
- A truncated or corrupted download
- A stale mirror serving an old or tampered file
- A wrong digest in the recipe

## Things you can try:
- Retry the install; transient corruption is the most common cause
- Verify the digest published by the upstream project
- If you maintain the recipe, update its sha256 field`,
	}

	archiveCorruptIssue = &Issue{
		id: ArchiveCorruptId,
		mdMsg: `
# Corrupt archive!

The downloaded file could not be extracted as a tar archive.

## Common causes:
- A truncated download
- The server returned an HTML error page instead of the archive
- An unsupported compression format

## Things you can try:
- Retry the install to re-download the archive
- Inspect the file manually:
~~~
$ file <archive>
$ tar -tzf <archive> | head
~~~

- Check that the recipe URL points at a .tar.gz, .tar.bz2, .tar.zst,
  .tar.lz4, or plain .tar file`,
	}

	archiveUnsafeIssue = &Issue{
		id: ArchiveUnsafeId,
		mdMsg: `
# Unsafe archive rejected!

The archive contains entries that would escape the extraction directory
(absolute paths, ".." components, or symlinks pointing outside the tree).
Extraction was aborted to protect your filesystem.

## Things you can try:
- Verify you are downloading from the official release server
- Report the archive to the upstream project
- Do NOT extract the archive manually without inspecting it first`,
	}

	toolchainMissingIssue = &Issue{
		id: ToolchainMissingId,
		mdMsg: `
# Build toolchain missing!

A build step's command (configure, make, cc) could not be started.

## Things you can try:
- Install the base build tooling:
  - Debian/Ubuntu: ` + "`sudo apt install build-essential`" + `
  - Fedora: ` + "`sudo dnf group install development-tools`" + `
  - macOS: ` + "`xcode-select --install`" + `

- Check that make and a C compiler are in your PATH:
~~~
$ command -v make cc
~~~`,
	}

	buildStepFailedIssue = &Issue{
		id: BuildStepFailedId,
		mdMsg: `
# Build step failed!

A build step exited with a non-zero status. sourceup stops at the first
failing step and propagates its exit code.

## Things you can try:
- Read the step output above for the actual compiler or configure error
- Re-run with verbose mode for more detail:
~~~
$ sourceup --verbose install <package>
~~~

- Keep the work directory to debug by hand:
~~~
$ sourceup install <package> --keep-work-dir
~~~

- Check that required headers and libraries are installed`,
	}

	recipeParseErrorIssue = &Issue{
		id: RecipeParseErrorId,
		mdMsg: `
# Failed to parse recipe!

The recipe file contains syntax errors or invalid configuration.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- Missing required fields (name, version, source url)
- A sha256 that is not a 64-character hex digest

## Things you can try:
- Check the error message above for the specific line/column
- Validate your CUE syntax using the cue command-line tool

## Example of a valid recipe:
~~~cue
name:    "libsodium"
version: "1.0.11"

source: {
	url: "https://download.libsodium.org/libsodium/releases/libsodium-{version}.tar.gz"
}

build: {
	jobs: 4
}
~~~`,
	}

	recipeNotFoundIssue = &Issue{
		id: RecipeNotFoundId,
		mdMsg: `
# Recipe not found!

No recipe matches the package you asked for.

## Things you can try:
- List the built-in recipes:
~~~
$ sourceup list --recipes
~~~

- Check for typos in the package name
- Point at a recipe file directly:
~~~
$ sourceup install --recipe ./my-package.cue
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the sourceup configuration file.

## Configuration file locations:
- Linux: ~/.config/sourceup/config.cue
- macOS: ~/Library/Application Support/sourceup/config.cue
- Windows: %APPDATA%\sourceup\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ sourceup config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/sourceup/config.cue
~~~

## Example configuration:
~~~cue
workdir: "/var/tmp/sourceup"

build: {
	runner: "native"
	jobs:   4
}

ui: {
	color_scheme: "auto"
	verbose:      false
}
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- Installing into a prefix you cannot write to (e.g. /usr/local)
- A work directory on a read-only filesystem

## Things you can try:
- Install into a prefix you own:
~~~
$ sourceup install <package> --prefix ~/.local
~~~

- Fix ownership of the target directory
- Run the install step with elevated privileges only if you trust the
  package and understand the consequences`,
	}

	issues = map[Id]*Issue{
		downloadFailedIssue.Id():   downloadFailedIssue,
		checksumMismatchIssue.Id(): checksumMismatchIssue,
		archiveCorruptIssue.Id():   archiveCorruptIssue,
		archiveUnsafeIssue.Id():    archiveUnsafeIssue,
		toolchainMissingIssue.Id(): toolchainMissingIssue,
		buildStepFailedIssue.Id():  buildStepFailedIssue,
		recipeParseErrorIssue.Id(): recipeParseErrorIssue,
		recipeNotFoundIssue.Id():   recipeNotFoundIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		permissionDeniedIssue.Id(): permissionDeniedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
