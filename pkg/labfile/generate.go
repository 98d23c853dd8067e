// SPDX-License-Identifier: MPL-2.0

package labfile

import (
	"fmt"
	"strings"
)

// GenerateCUE generates a CUE representation of a Labfile, suitable for
// writing a starter manifest.
func GenerateCUE(lf *Labfile) string {
	var sb strings.Builder

	sb.WriteString("// Labfile - workspace manifest for robolab\n")
	sb.WriteString("// Run `robolab provision` to apply the steps below in order.\n\n")

	if lf.Version != "" {
		sb.WriteString(fmt.Sprintf("version: %q\n", lf.Version))
	}
	sb.WriteString(fmt.Sprintf("name: %q\n", lf.Name))
	if lf.Description != "" {
		sb.WriteString(fmt.Sprintf("description: %q\n", lf.Description))
	}
	if lf.Workspace != "" {
		sb.WriteString(fmt.Sprintf("workspace: %q\n", lf.Workspace))
	}

	sb.WriteString("\nsteps: [\n")
	for _, s := range lf.Steps {
		sb.WriteString("\t{\n")
		sb.WriteString(fmt.Sprintf("\t\tname: %q\n", s.Name))
		sb.WriteString(fmt.Sprintf("\t\tkind: %q\n", s.Kind))
		if s.Description != "" {
			sb.WriteString(fmt.Sprintf("\t\tdescription: %q\n", s.Description))
		}

		switch s.Kind {
		case StepApt:
			writeStringList(&sb, "packages", s.Packages, "\t\t")
		case StepScript:
			if strings.Contains(s.Script, "\n") {
				sb.WriteString("\t\tscript: \"\"\"\n")
				for _, line := range strings.Split(strings.TrimRight(s.Script, "\n"), "\n") {
					sb.WriteString(fmt.Sprintf("\t\t\t%s\n", line))
				}
				sb.WriteString("\t\t\t\"\"\"\n")
			} else {
				sb.WriteString(fmt.Sprintf("\t\tscript: %q\n", s.Script))
			}
			if s.Creates != "" {
				sb.WriteString(fmt.Sprintf("\t\tcreates: %q\n", s.Creates))
			}
		case StepRepos:
			if s.Dest != "" {
				sb.WriteString(fmt.Sprintf("\t\tdest: %q\n", s.Dest))
			}
			sb.WriteString("\t\trepos: [\n")
			for _, r := range s.Repos {
				sb.WriteString("\t\t\t{")
				sb.WriteString(fmt.Sprintf("url: %q", r.URL))
				if r.Ref != "" {
					sb.WriteString(fmt.Sprintf(", ref: %q", r.Ref))
				}
				if r.Dest != "" {
					sb.WriteString(fmt.Sprintf(", dest: %q", r.Dest))
				}
				if r.Submodules {
					sb.WriteString(", submodules: true")
				}
				if r.SetupPy {
					sb.WriteString(", setup_py: true")
				}
				sb.WriteString("},\n")
			}
			sb.WriteString("\t\t]\n")
		case StepVenv:
			sb.WriteString(fmt.Sprintf("\t\tpath: %q\n", s.Path))
			if s.Python != "" {
				sb.WriteString(fmt.Sprintf("\t\tpython: %q\n", s.Python))
			}
			writeStringList(&sb, "requirements", s.Requirements, "\t\t")
			writeStringList(&sb, "pip_packages", s.PipPackages, "\t\t")
		}

		sb.WriteString("\t},\n")
	}
	sb.WriteString("]\n")

	return sb.String()
}

// writeStringList writes a CUE list field when the slice is non-empty.
func writeStringList(sb *strings.Builder, field string, values []string, indent string) {
	if len(values) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("%s%s: [\n", indent, field))
	for _, v := range values {
		sb.WriteString(fmt.Sprintf("%s\t%q,\n", indent, v))
	}
	sb.WriteString(fmt.Sprintf("%s]\n", indent))
}

// Scaffold returns the starter manifest written by `robolab init`: the
// ROS 2 / Gazebo / ARGoS3 workspace the tool was built around, trimmed to
// entries an operator is expected to edit.
func Scaffold() *Labfile {
	return &Labfile{
		Name:        "swarmlab",
		Description: "Swarm robotics research workspace (ROS 2, Gazebo, ARGoS3)",
		Steps: []Step{
			{
				Name:        "ros2-apt-source",
				Kind:        StepScript,
				Description: "Register the ROS 2 apt repository and keyring",
				Script: strings.Join([]string{
					"sudo apt-get update",
					"sudo apt-get install -y curl gnupg lsb-release",
					"sudo curl -sSL https://raw.githubusercontent.com/ros/rosdistro/master/ros.key -o /usr/share/keyrings/ros-archive-keyring.gpg",
					`echo "deb [arch=$(dpkg --print-architecture) signed-by=/usr/share/keyrings/ros-archive-keyring.gpg] http://packages.ros.org/ros2/ubuntu $(. /etc/os-release && echo $UBUNTU_CODENAME) main" | sudo tee /etc/apt/sources.list.d/ros2.list > /dev/null`,
					"sudo apt-get update",
				}, "\n"),
				Creates: "/usr/share/keyrings/ros-archive-keyring.gpg",
			},
			{
				Name:        "ros2-desktop",
				Kind:        StepApt,
				Description: "ROS 2 desktop plus build tooling",
				Packages: []string{
					"ros-humble-desktop",
					"ros-dev-tools",
					"python3-colcon-common-extensions",
					"python3-rosdep",
				},
			},
			{
				Name:        "gazebo",
				Kind:        StepApt,
				Description: "Gazebo simulator with ROS 2 bindings",
				Packages: []string{
					"ros-humble-ros-gz",
				},
			},
			{
				Name:        "argos3",
				Kind:        StepScript,
				Description: "Build and install ARGoS3 from source",
				Script: strings.Join([]string{
					"sudo apt-get install -y cmake libfreeimage-dev libfreeimageplus-dev qtbase5-dev freeglut3-dev libxi-dev libxmu-dev liblua5.3-dev lua5.3 doxygen libgraphviz-dev",
					"git clone https://github.com/ilpincy/argos3.git /tmp/argos3",
					"cd /tmp/argos3 && mkdir -p build_simulator && cd build_simulator && cmake ../src && make && sudo make install && sudo ldconfig",
				}, "\n"),
				Creates: "/usr/local/bin/argos3",
			},
			{
				Name:        "project-repos",
				Kind:        StepRepos,
				Description: "Clone the project repositories into the workspace",
				Dest:        "src",
				Repos: []Repo{
					{URL: "https://github.com/ilpincy/argos3-examples.git", SetupPy: true},
				},
			},
			{
				Name:        "python-env",
				Kind:        StepVenv,
				Description: "Python virtual environment for experiment tooling",
				Path:        ".venv",
				PipPackages: []string{"numpy", "pyyaml"},
			},
		},
	}
}
