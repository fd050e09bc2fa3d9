/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eslsoft/vocquiz/internal/entity"
)

var markupPattern = regexp.MustCompile(`<[^>]+>`)

var ratingCmd = &cobra.Command{
	Use:   "rating",
	Short: "Print the player rating",
	Long:  "Print every player by points. With --user the rating is shown the way that player sees it in chat.",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt64("user")

		c, cleanup, err := initContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		out := cmd.OutOrStdout()
		if userID != 0 {
			text, err := c.ScoreBoard.RenderRating(cmd.Context(), userID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, html.UnescapeString(markupPattern.ReplaceAllString(text, "")))
			return err
		}

		rankings, err := c.ScoreBoard.Rankings(cmd.Context())
		if err != nil {
			return err
		}
		return writeRankings(out, rankings)
	},
}

func writeRankings(w io.Writer, rankings []entity.RatingEntry) error {
	if len(rankings) == 0 {
		_, err := fmt.Fprintln(w, "No players yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tPOINTS\tID")
	for i, r := range rankings {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", i+1, r.Name, r.Points, r.ExternalID)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(ratingCmd)
	ratingCmd.Flags().Int64("user", 0, "show the rating as seen by this player id")
}
