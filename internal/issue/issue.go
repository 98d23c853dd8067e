// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ContainerNotFoundId Id = iota + 1
	EngineNotFoundId
	BuilderNotFoundId
	SkopeoNotFoundId
	BuildExhaustedId
	LabfileNotFoundId
	LabfileParseErrorId
	ConfigLoadFailedId
	PermissionDeniedId
	StepFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links for this issue type
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

	containerNotFoundIssue = &Issue{
		id: ContainerNotFoundId,
		mdMsg: `
# Container not found!

The container you asked to package does not exist in the local engine.

## Things you can try:
- List the containers your engine knows about:
~~~
$ docker ps -a
~~~

- Check for typos in the container name
- Create and provision the container first, then package it:
~~~
$ docker run -d --name simlab ubuntu:22.04 sleep infinity
$ robolab pack simlab simlab-image
~~~`,
	}

	engineNotFoundIssue = &Issue{
		id: EngineNotFoundId,
		mdMsg: `
# Container engine not found!

robolab needs a working Docker-compatible engine to inspect, commit and
export containers, and none responded.

## Things you can try:
- Install Docker: https://docs.docker.com/get-docker/
- Or install Podman (its CLI is compatible):
  - Linux: ` + "`sudo apt install podman`" + ` or ` + "`sudo dnf install podman`" + `
  - macOS: ` + "`brew install podman`" + `

- Check that the daemon is running and reachable:
~~~
$ docker version
~~~

- Point robolab at a different binary in ~/.config/robolab/config.cue:
~~~cue
container: binary: "podman"
~~~`,
	}

	builderNotFoundIssue = &Issue{
		id: BuilderNotFoundId,
		mdMsg: `
# Image builder not found!

Building a SIF image requires Apptainer or Singularity, and neither was
found on your PATH.

## Things you can try:
- Install Apptainer: https://apptainer.org/docs/admin/main/installation.html
- On many HPC clusters the builder ships as an environment module:
~~~
$ module avail apptainer singularity
$ module load apptainer
~~~

- Prefer a specific builder in your config:
~~~cue
sif: prefer: "singularity"
~~~`,
	}

	skopeoNotFoundIssue = &Issue{
		id: SkopeoNotFoundId,
		mdMsg: `
# skopeo not found!

Exporting the committed image to an OCI archive uses skopeo, which was not
found on your PATH.

## Things you can try:
- Install it:
  - Debian/Ubuntu: ` + "`sudo apt install skopeo`" + `
  - Fedora: ` + "`sudo dnf install skopeo`" + `
  - macOS: ` + "`brew install skopeo`" + `

- If a fresh archive already exists next to your output, skip the export:
~~~
$ robolab pack --skip-commit simlab simlab-image
~~~`,
	}

	buildExhaustedIssue = &Issue{
		id: BuildExhaustedId,
		mdMsg: `
# Image build failed!

Every build strategy was attempted (plain, --fix-perms, --fakeroot) and
none produced an image.

## Common causes:
- Unprivileged user namespaces disabled on this host
- No subuid/subgid mapping for your user (required by fakeroot)
- A truncated or corrupt OCI archive

## Things you can try:
- Re-run with verbose mode to see the output of each attempt:
~~~
$ robolab --verbose pack simlab simlab-image
~~~

- Check your fakeroot mapping:
~~~
$ grep $USER /etc/subuid /etc/subgid
~~~

- Force a fresh export and retry:
~~~
$ robolab pack --yes simlab simlab-image
~~~`,
	}

	labfileNotFoundIssue = &Issue{
		id: LabfileNotFoundId,
		mdMsg: `
# No labfile found!

We searched for a labfile but couldn't find one in the expected locations.

## Search locations (in order of precedence):
1. The path given with --file
2. labfile.cue in the current directory
3. labfile (no extension) in the current directory

## Things you can try:
- Scaffold a starter labfile in the current directory:
~~~
$ robolab init
~~~

- Or run from the directory that has one:
~~~
$ cd /path/to/your/lab
$ robolab provision --list
~~~

## Example labfile structure:
~~~cue
name: "swarm-lab"

steps: [
  {
    name: "ros2-desktop"
    kind: "apt"
    packages: ["ros-humble-desktop", "ros-dev-tools"]
  },
]
~~~`,
	}

	labfileParseErrorIssue = &Issue{
		id: LabfileParseErrorId,
		mdMsg: `
# Failed to parse labfile!

Your labfile contains syntax errors or invalid configuration.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- A step mixing fields that belong to different kinds
- Missing required fields (every step needs name and kind)

## Things you can try:
- Check the error message above for the specific line/column
- Validate the file with the cue command-line tool
- Run with verbose mode for more details:
~~~
$ robolab --verbose provision --list
~~~

## Example of a valid step:
~~~cue
steps: [
  {
    name: "argos3"
    kind: "script"
    script: """
      git clone https://github.com/ilpincy/argos3.git
      cd argos3 && mkdir -p build
      """
    creates: "/usr/local/bin/argos3"
  },
]
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the robolab configuration file.

## Configuration file locations:
- Linux: ~/.config/robolab/config.cue
- macOS: ~/Library/Application Support/robolab/config.cue
- Windows: %APPDATA%\robolab\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ robolab config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/robolab/config.cue
~~~

## Example configuration:
~~~cue
container: binary: "docker"
sif: prefer: "auto"

hpc: {
  partition: "gpu"
  time:      "08:00:00"
}
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- Talking to the Docker daemon without being in the docker group
- Writing artifacts into a directory you don't own
- A fakeroot build without subuid/subgid mappings

## Things you can try:
- Join the docker group and log in again:
~~~
$ sudo usermod -aG docker $USER
~~~

- Run robolab from a directory you own
- Ask your admin for a subuid/subgid range, or build on a host where
  unprivileged user namespaces are enabled`,
	}

	stepFailedIssue = &Issue{
		id: StepFailedId,
		mdMsg: `
# Provisioning step failed!

A step in your labfile did not apply cleanly.

## Common causes:
- apt packages that don't exist for this distribution
- A script exiting nonzero partway through
- Cloning a repository that needs credentials
- Network trouble mid-download

## Things you can try:
- Re-run just the failing step:
~~~
$ robolab provision --only <step-name>
~~~

- Steps are idempotent, so fix the cause and re-run everything:
~~~
$ robolab provision
~~~

- Run with verbose mode to see the full command output`,
	}

	issues = map[Id]*Issue{
		containerNotFoundIssue.Id(): containerNotFoundIssue,
		engineNotFoundIssue.Id():    engineNotFoundIssue,
		builderNotFoundIssue.Id():   builderNotFoundIssue,
		skopeoNotFoundIssue.Id():    skopeoNotFoundIssue,
		buildExhaustedIssue.Id():    buildExhaustedIssue,
		labfileNotFoundIssue.Id():   labfileNotFoundIssue,
		labfileParseErrorIssue.Id(): labfileParseErrorIssue,
		configLoadFailedIssue.Id():  configLoadFailedIssue,
		permissionDeniedIssue.Id():  permissionDeniedIssue,
		stepFailedIssue.Id():        stepFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
