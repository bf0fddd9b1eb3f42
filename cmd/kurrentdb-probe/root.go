/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/kurrent-io/kurrentdb-client-go/config"
	"github.com/kurrent-io/kurrentdb-client-go/connection"
	"github.com/kurrent-io/kurrentdb-client-go/kurrentdb"
)

func newRootCommand() *cobra.Command {
	var timeout time.Duration
	var configPath string

	cmd := &cobra.Command{
		Use:   "kurrentdb-probe [connection-string]",
		Short: "Connect once and print the selected node",
		Long: "kurrentdb-probe parses a KurrentDB/EventStoreDB connection string, " +
			"runs node acquisition exactly once, and prints the endpoint and " +
			"server info of whichever node the selector settled on. The " +
			"connection string may be given positionally, via --connection-string, " +
			"via the KURRENTDB_CONNECTION_STRING environment variable, or in a " +
			"kurrentdb.{yaml,json,toml} file on --config-path.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			connString, err := resolveConnString(cmd, args, configPath)
			if err != nil {
				return err
			}
			return runProbe(connString, timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "overall timeout for acquiring a node")
	cmd.Flags().String("connection-string", "", "KurrentDB/EventStoreDB connection string")
	cmd.Flags().StringVar(&configPath, "config-path", ".", "directory to search for a kurrentdb config file")
	return cmd
}

// resolveConnString picks the connection string from (in ascending
// priority) the config file, the environment, the --connection-string
// flag, and finally the positional argument.
func resolveConnString(cmd *cobra.Command, args []string, configPath string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	loader := config.New(configPath)
	if err := loader.BindPFlag(cmd.Flags().Lookup("connection-string")); err != nil {
		return "", fmt.Errorf("binding --connection-string: %w", err)
	}

	s, err := loader.Load()
	if err != nil {
		return "", err
	}
	return s.Raw(), nil
}

func runProbe(connString string, timeout time.Duration) error {
	out := colorable.NewColorableStdout()

	client, err := kurrentdb.NewClient(connString)
	if err != nil {
		return fmt.Errorf("parsing/starting client: %w", err)
	}

	type result struct {
		handle connection.Handle
		err    error
	}
	done := make(chan result, 1)
	go func() {
		h, err := client.CurrentSelectedNode()
		done <- result{handle: h, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			color.New(color.FgRed).Fprintf(out, "failed to acquire a node: %s\n", r.err)
			return r.err
		}
		color.New(color.FgGreen, color.Bold).Fprintf(out, "connected\n")
		fmt.Fprintf(out, "  endpoint: %s\n", r.handle.Endpoint)
		fmt.Fprintf(out, "  secure:   %v\n", r.handle.Secure)
		if v := r.handle.ServerInfo.Version; v != nil {
			fmt.Fprintf(out, "  version:  %s\n", v.String())
		}
		return nil
	case <-time.After(timeout):
		color.New(color.FgRed).Fprintf(out, "timed out after %s\n", timeout)
		return fmt.Errorf("timed out waiting for a node")
	}
}
