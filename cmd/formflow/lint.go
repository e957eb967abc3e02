package main

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/definition"
)

var errLintFailed = errors.New("lint failed")

type fileViolation struct {
	file string
	definition.Violation
}

func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <paths...>",
		Short: "Check form definitions for structural problems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			var violations []fileViolation
			for _, path := range paths {
				_, err := definition.LoadFile(path)
				if err == nil {
					continue
				}
				var lintErr *definition.LintError
				if !errors.As(err, &lintErr) {
					return err
				}
				for _, v := range lintErr.Violations {
					violations = append(violations, fileViolation{file: path, Violation: v})
				}
			}

			if len(violations) == 0 {
				printf(cmd.OutOrStdout(), "%d definition(s) ok\n", len(paths))
				return nil
			}
			sort.Slice(violations, func(i, j int) bool {
				if violations[i].file == violations[j].file {
					if violations[i].Location == violations[j].Location {
						return violations[i].Message < violations[j].Message
					}
					return violations[i].Location < violations[j].Location
				}
				return violations[i].file < violations[j].file
			})
			for _, v := range violations {
				printf(cmd.ErrOrStderr(), "%s: %s\n", v.file, v.Violation)
			}
			return errLintFailed
		},
	}
}
