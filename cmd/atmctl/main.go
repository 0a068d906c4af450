// Copyright 2022 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package atmctl provides a small command-line client for Adaptavist
// Test Management for Jira Server: listing projects and folders,
// showing and editing test cases, linking them to Jira issues, and
// recording test results.
package main

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/diffeo/go-adaptavist/adaptavist"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"
)

var client *adaptavist.Client

// config mirrors the YAML configuration file, holding the same
// settings as the global command-line flags.
type config struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

func loadConfigYaml(filename string) (config, error) {
	var result config
	bytes, err := ioutil.ReadFile(filename)
	if err == nil {
		err = yaml.Unmarshal(bytes, &result)
	}
	return result, err
}

var listProjects = cli.Command{
	Name:  "projects",
	Usage: "list all projects",
	Action: func(c *cli.Context) error {
		projects, err := client.Projects()
		if err != nil {
			return err
		}
		for _, project := range projects {
			fmt.Printf("%v\t%v\t%v\n", project.ID, project.Key, project.Name)
		}
		return nil
	},
}

var listFolders = cli.Command{
	Name:  "folders",
	Usage: "list the folders of one type in a project",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "project",
			Usage: "project key",
		},
		cli.StringFlag{
			Name:  "type",
			Value: string(adaptavist.FolderTestCase),
			Usage: "folder type: TEST_CASE, TEST_PLAN, or TEST_RUN",
		},
	},
	Action: func(c *cli.Context) error {
		folderType := adaptavist.FolderType(c.String("type"))
		folders, err := client.Folders(c.String("project"), folderType)
		if err != nil {
			return err
		}
		for _, folder := range folders {
			fmt.Println(folder)
		}
		return nil
	},
}

var testCase = cli.Command{
	Name:  "testcase",
	Usage: "inspect or change a single test case",
	Subcommands: []cli.Command{
		showTestCase,
		editTestCase,
	},
}

var showTestCase = cli.Command{
	Name:      "show",
	Usage:     "print one test case",
	ArgsUsage: "KEY",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("Expected exactly one test case key")
		}
		testCase, err := client.TestCase(c.Args().First())
		if err != nil {
			return err
		}
		fmt.Printf("Key:\t%v\n", testCase.Key)
		fmt.Printf("Name:\t%v\n", testCase.Name)
		fmt.Printf("Folder:\t%v\n", testCase.Folder)
		fmt.Printf("Status:\t%v\n", testCase.Status)
		fmt.Printf("Priority:\t%v\n", testCase.Priority)
		if testCase.Objective != "" {
			fmt.Printf("Objective:\t%v\n", testCase.Objective)
		}
		if len(testCase.Labels) > 0 {
			fmt.Printf("Labels:\t%v\n", strings.Join(testCase.Labels, ", "))
		}
		if len(testCase.IssueLinks) > 0 {
			fmt.Printf("Issues:\t%v\n", strings.Join(testCase.IssueLinks, ", "))
		}
		if testCase.TestScript != nil && len(testCase.TestScript.Steps) > 0 {
			fmt.Printf("Steps:\t%v\n", len(testCase.TestScript.Steps))
		}
		return nil
	},
}

var editTestCase = cli.Command{
	Name:      "edit",
	Usage:     "change fields of one test case",
	ArgsUsage: "KEY",
	Description: "Repeated --label and --link flags merge into the " +
		"current lists; pass \"-\" as the first value to replace " +
		"them instead.",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "name",
			Usage: "rename the test case",
		},
		cli.StringFlag{
			Name:  "folder",
			Usage: "move the test case to this folder",
		},
		cli.StringSliceFlag{
			Name:  "label",
			Usage: "change the label list",
		},
		cli.StringSliceFlag{
			Name:  "link",
			Usage: "change the linked issues",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("Expected exactly one test case key")
		}
		opts := adaptavist.EditTestCaseOptions{
			Name:       c.String("name"),
			Labels:     adaptavist.ParseDelta(c.StringSlice("label")),
			IssueLinks: adaptavist.ParseDelta(c.StringSlice("link")),
		}
		if c.IsSet("folder") {
			folder := c.String("folder")
			opts.Folder = &folder
		}
		return client.EditTestCase(c.Args().First(), opts)
	},
}

var linkIssue = cli.Command{
	Name:      "link",
	Usage:     "link test cases to a Jira issue",
	ArgsUsage: "ISSUE KEY...",
	Action: func(c *cli.Context) error {
		if c.NArg() < 2 {
			return fmt.Errorf("Expected an issue key and at least one test case key")
		}
		args := c.Args()
		return client.LinkTestCases(args.First(), args.Tail())
	},
}

var result = cli.Command{
	Name:  "result",
	Usage: "work with test results",
	Subcommands: []cli.Command{
		setResult,
	},
}

var setResult = cli.Command{
	Name:      "set",
	Usage:     "record the status of a test case in a test run",
	ArgsUsage: "RUN CASE STATUS",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "comment",
			Usage: "comment on the result",
		},
		cli.StringFlag{
			Name:  "env",
			Usage: "environment the test ran in",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 3 {
			return fmt.Errorf("Expected a test run key, a test case key, and a status")
		}
		args := c.Args()
		opts := adaptavist.EditTestResultOptions{}
		if c.IsSet("comment") {
			comment := c.String("comment")
			opts.Comment = &comment
		}
		if c.IsSet("env") {
			environment := c.String("env")
			opts.Environment = &environment
		}
		return client.EditTestResultStatus(args.Get(0), args.Get(1), args.Get(2), opts)
	},
}

var attach = cli.Command{
	Name:      "attach",
	Usage:     "attach a file to the result of a test case in a test run",
	ArgsUsage: "RUN CASE FILE",
	Action: func(c *cli.Context) error {
		if c.NArg() != 3 {
			return fmt.Errorf("Expected a test run key, a test case key, and a file")
		}
		args := c.Args()
		return client.AddTestResultAttachmentFile(args.Get(0), args.Get(1), args.Get(2))
	},
}

func main() {
	app := cli.NewApp()
	app.Usage = "work with an Adaptavist Test Management server"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "url",
			Usage:  "base URL of the Jira server",
			EnvVar: "ATM_URL",
		},
		cli.StringFlag{
			Name:   "user",
			Usage:  "username for basic authentication",
			EnvVar: "ATM_USER",
		},
		cli.StringFlag{
			Name:   "password",
			Usage:  "password for basic authentication",
			EnvVar: "ATM_PASSWORD",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "configuration YAML file",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "log every request",
		},
	}
	app.Commands = []cli.Command{
		listProjects,
		listFolders,
		testCase,
		linkIssue,
		result,
		attach,
	}
	app.Before = func(c *cli.Context) error {
		settings := config{}
		if filename := c.String("config"); filename != "" {
			var err error
			settings, err = loadConfigYaml(filename)
			if err != nil {
				return err
			}
		}
		// Flags and their environment variables win over the
		// configuration file.
		if c.String("url") != "" {
			settings.URL = c.String("url")
		}
		if c.String("user") != "" {
			settings.Username = c.String("user")
		}
		if c.String("password") != "" {
			settings.Password = c.String("password")
		}
		if c.Bool("verbose") {
			logrus.SetLevel(logrus.DebugLevel)
		}
		var err error
		client, err = adaptavist.New(adaptavist.Config{
			BaseURL:  settings.URL,
			Username: settings.Username,
			Password: settings.Password,
		})
		return err
	}
	app.RunAndExitOnError()
}
