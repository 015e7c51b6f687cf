// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	ResourceNotFoundId Id = iota + 1
	JavaNotFoundId
	JavaVersionMismatchId
	CompilationFailedId
	DependenciesUnresolvedId
	InvalidDirectiveId
	ArchiveMissingId
	DownloadFailedId
	ConfigLoadFailedId
	LaunchFailedId
)

type (
	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is one catalog entry.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id { return i.id }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Render renders the issue for the terminal with the named glamour style
// ("dark", "light", "auto", or a path to a style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range append(slices.Clone(i.docLinks), i.extLinks...) {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(sb.String(), stylePath)
}

var (
	render = glamour.Render

	resourceNotFoundIssue = &Issue{
		id: ResourceNotFoundId,
		mdMsg: `
# Nothing to run there!

jrun could not find the code you asked for.

## A reference can be
- a path to a ` + "`.java`" + `, ` + "`.jsh`" + ` or ` + "`.jar`" + ` file
- an ` + "`http(s)://`" + ` URL to one of those
- a ` + "`group:artifact:version`" + ` coordinate of a jar in your local Maven repository

## Things you can try
- Check the spelling of the path or URL
- For coordinates, check ` + "`dependencies.local_repository`" + ` in your config`,
	}

	javaNotFoundIssue = &Issue{
		id: JavaNotFoundId,
		mdMsg: `
# No Java installation found!

jrun looks for Java in this order:
1. ` + "`--java-home`" + ` or ` + "`run.java_home`" + ` in your config
2. the ` + "`JAVA_HOME`" + ` environment variable
3. ` + "`java`" + ` on your ` + "`PATH`" + `

## Things you can try
~~~
$ export JAVA_HOME=/path/to/jdk
$ jrun run Hello.java
~~~`,
		extLinks: []HttpLink{"https://adoptium.net/"},
	}

	javaVersionMismatchIssue = &Issue{
		id: JavaVersionMismatchId,
		mdMsg: `
# Wrong Java version!

The code asks for a Java version (` + "`//JAVA`" + ` directive, jar manifest or
` + "`--java`" + `) that the located installation does not provide.

## Things you can try
- Point ` + "`JAVA_HOME`" + ` or ` + "`--java-home`" + ` at a matching JDK
- Relax the requirement, e.g. ` + "`//JAVA 17+`" + ` instead of ` + "`//JAVA 17`",
	}

	compilationFailedIssue = &Issue{
		id: CompilationFailedId,
		mdMsg: `
# Compilation failed!

javac reported errors; they are printed above this message.

## Things you can try
- Fix the reported errors and run again
- Check ` + "`//COMPILE_OPTIONS`" + ` and ` + "`build.compile_options`" + `
- Make sure every class the code uses is on ` + "`//DEPS`" + ` or ` + "`//SOURCES`",
	}

	dependenciesUnresolvedIssue = &Issue{
		id: DependenciesUnresolvedId,
		mdMsg: `
# Dependencies not found!

jrun resolves ` + "`//DEPS`" + ` coordinates against your local Maven repository only;
it never downloads artifacts itself.

## Things you can try
~~~
$ mvn dependency:get -Dartifact=group:artifact:version
~~~
- Or set ` + "`dependencies.local_repository`" + ` to the repository that holds them`,
	}

	invalidDirectiveIssue = &Issue{
		id: InvalidDirectiveId,
		mdMsg: `
# Invalid source directive!

A ` + "`//NAME value`" + ` line at the top of the source could not be understood.

## Examples
~~~java
//DEPS info.picocli:picocli:4.7.5
//JAVA 17+
//JAVA_OPTIONS -Xmx512m "-Dgreeting=hello world"
~~~`,
	}

	archiveMissingIssue = &Issue{
		id: ArchiveMissingId,
		mdMsg: `
# Jar not found!

The jar to launch does not exist, or was removed from the build cache.

## Things you can try
- Rebuild with ` + "`jrun build --fresh`" + `
- Check ` + "`build.cache_dir`" + ` in your config`,
	}

	downloadFailedIssue = &Issue{
		id: DownloadFailedId,
		mdMsg: `
# Download failed!

The remote code could not be fetched.

## Things you can try
- Open the URL in a browser to check it is reachable
- Check proxy settings (` + "`HTTPS_PROXY`" + `)`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded!

## Things you can try
~~~
$ jrun config path
$ jrun config show
~~~
- Fix the reported field, or delete the file to fall back to defaults`,
	}

	launchFailedIssue = &Issue{
		id: LaunchFailedId,
		mdMsg: `
# Launch failed!

java or jshell could not be started.

## Things you can try
- Run with ` + "`--dry-run`" + ` to print the command instead of running it
- Run with ` + "`--verbose`" + ` for details`,
	}

	issues = map[Id]*Issue{
		resourceNotFoundIssue.Id():       resourceNotFoundIssue,
		javaNotFoundIssue.Id():           javaNotFoundIssue,
		javaVersionMismatchIssue.Id():    javaVersionMismatchIssue,
		compilationFailedIssue.Id():      compilationFailedIssue,
		dependenciesUnresolvedIssue.Id(): dependenciesUnresolvedIssue,
		invalidDirectiveIssue.Id():       invalidDirectiveIssue,
		archiveMissingIssue.Id():         archiveMissingIssue,
		downloadFailedIssue.Id():         downloadFailedIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		launchFailedIssue.Id():           launchFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
