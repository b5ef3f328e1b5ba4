package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/aita/blockjoin/db"
	"github.com/aita/blockjoin/relop"
)

// withDB opens the database file, runs fn and closes the file again.
func withDB(path string, fn func(*db.DB) error) error {
	d, err := db.Open(path, options())
	if err != nil {
		return err
	}
	err = fn(d)
	return multierr.Append(err, d.Close())
}

var createCmd = &cobra.Command{
	Use:   "create [file name]",
	Short: "Create a new database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := db.Create(args[0], options())
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s)\n", args[0], d.FileID())
		return d.Close()
	},
}

var createTableCmd = &cobra.Command{
	Use:   "create-table [file name] [table] [name:type,...]",
	Short: "Create a table",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		header, err := parseHeader(args[2])
		if err != nil {
			return err
		}
		return withDB(args[0], func(d *db.DB) error {
			return d.CreateTable(args[1], header, db.SegmentTable)
		})
	},
}

var insertCmd = &cobra.Command{
	Use:   "insert [file name] [table] [values...]",
	Short: "Insert a new row into a table",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(args[0], func(d *db.DB) error {
			header, err := d.Header(args[1])
			if err != nil {
				return err
			}
			row, err := parseRow(header, args[2:])
			if err != nil {
				return err
			}
			return d.InsertRow(args[1], row)
		})
	},
}

var selectCmd = &cobra.Command{
	Use:   "select [file name] [table]",
	Short: "Print the rows of a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(args[0], func(d *db.DB) error {
			rows, err := d.Select(args[1])
			if err != nil {
				return err
			}
			for i, row := range rows {
				fmt.Printf("%d: %s\n", i, formatRow(row))
			}
			return nil
		})
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables [file name]",
	Short: "List tables and their extents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(args[0], func(d *db.DB) error {
			for _, name := range d.Tables() {
				t, err := d.Table(name)
				if err != nil {
					return err
				}
				fmt.Printf("%s (%s) %v\n", t.Name, t.Segment, t.Extents)
				for _, attr := range t.Header {
					fmt.Printf("  %s %s\n", attr.Name, attr.Type)
				}
			}
			return nil
		})
	},
}

var joinCmd = &cobra.Command{
	Use:   "join [file name] [table1] [table2] [destination] [postfix constraint]",
	Short: "Theta join two tables into a new table",
	Long: `Theta join two tables into a new table.

The constraint is written in postfix order, for example
  "manager lastname ="  or  "id_prof mbr = year int:2010 >= AND".`,
	Args: cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr, err := relop.ParseExpression(args[4])
		if err != nil {
			return err
		}
		return withDB(args[0], func(d *db.DB) error {
			return relop.ThetaJoin(d, args[1], args[2], args[3], expr)
		})
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff [file name] [table1] [table2] [destination]",
	Short: "Write the rows of table1 that are not in table2 into a new table",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(args[0], func(d *db.DB) error {
			return relop.Difference(d, args[1], args[2], args[3])
		})
	},
}

var intersectCmd = &cobra.Command{
	Use:   "intersect [file name] [table1] [table2] [destination]",
	Short: "Write the rows of table1 that are also in table2 into a new table",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(args[0], func(d *db.DB) error {
			return relop.Intersect(d, args[1], args[2], args[3])
		})
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump [file name] [block]",
	Short: "Print the decoded contents of a block",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		return withDB(args[0], func(d *db.DB) error {
			out, err := d.DumpBlock(db.BlockID(id))
			if err != nil {
				return err
			}
			fmt.Print(out)
			stats := d.Stats()
			fmt.Printf("cache: %d hits, %d misses, %d evictions\n", stats.Hits, stats.Misses, stats.Evictions)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(createTableCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(intersectCmd)
	rootCmd.AddCommand(dumpCmd)
}
