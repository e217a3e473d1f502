package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage knowledge base collections",
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections and their chunk counts",
	Args:  cobra.NoArgs,
	RunE:  runCollectionList,
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a collection and all its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionDelete,
}

func init() {
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionDeleteCmd)
	rootCmd.AddCommand(collectionCmd)
}

func runCollectionList(cmd *cobra.Command, _ []string) error {
	if chunkStore == nil {
		return errors.New("chunk store not configured")
	}

	names, err := chunkStore.Collections(cmd.Context())
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	if len(names) == 0 {
		cmd.Println("No collections. Run 'vera ingest' to add documents.")
		return nil
	}

	for _, name := range names {
		count, err := chunkStore.Count(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("count collection %s: %w", name, err)
		}
		cmd.Printf("  %s: %d chunks\n", name, count)
	}

	return nil
}

func runCollectionDelete(cmd *cobra.Command, args []string) error {
	if chunkStore == nil {
		return errors.New("chunk store not configured")
	}

	name := args[0]
	if err := chunkStore.DeleteCollection(cmd.Context(), name); err != nil {
		return fmt.Errorf("delete collection %s: %w", name, err)
	}

	cmd.Printf("Deleted collection %q.\n", name)
	return nil
}
