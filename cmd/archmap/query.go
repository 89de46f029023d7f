package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archmapio/archmap"
	"github.com/archmapio/archmap/application/service"
	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/relation"
)

func relatedCmd() *cobra.Command {
	var (
		envFile      string
		junctionType string
		relationType string
		direction    string
	)

	cmd := &cobra.Command{
		Use:   "related <entity-type> <key>",
		Short: "List entities related to one entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), envFile, func(ctx context.Context, client *archmap.Client) error {
				related, err := client.Queries.Related(ctx, service.RelatedParams{
					EntityType:   catalog.EntityType(args[0]),
					Key:          catalog.NewBusinessKey(args[1]),
					JunctionType: relation.JunctionType(junctionType),
					Relation:     relation.RelationType(relationType),
					Direction:    service.Direction(direction),
				})
				if err != nil {
					return err
				}
				if len(related) == 0 {
					fmt.Println("no related entities")
					return nil
				}
				for _, r := range related {
					line := fmt.Sprintf("%s/%s  %s", r.Entity.Type(), r.Entity.Key(), r.Entity.Name())
					if rel := r.Junction.Relation().String(); rel != "" {
						line += fmt.Sprintf("  [%s]", rel)
					}
					fmt.Println(line)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&junctionType, "junction-type", "", "Restrict to one junction collection")
	cmd.Flags().StringVar(&relationType, "relation", "", "Restrict to one relationship classification")
	cmd.Flags().StringVar(&direction, "direction", "both", "Traversal direction: both, outgoing, incoming")

	return cmd
}

func unresolvedCmd() *cobra.Command {
	var (
		envFile      string
		junctionType string
	)

	cmd := &cobra.Command{
		Use:   "unresolved",
		Short: "List junction references that did not resolve",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), envFile, func(ctx context.Context, client *archmap.Client) error {
				refs, err := client.Queries.Unresolved(ctx, relation.JunctionType(junctionType))
				if err != nil {
					return err
				}
				if len(refs) == 0 {
					fmt.Println("no unresolved references")
					return nil
				}
				for _, ref := range refs {
					fmt.Println(ref)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&junctionType, "junction-type", "", "Restrict to one junction collection")

	return cmd
}

func treeCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "tree <junction-type>",
		Short: "Print the hierarchy encoded by a junction collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), envFile, func(ctx context.Context, client *archmap.Client) error {
				nodes, err := client.Queries.Tree(ctx, relation.JunctionType(args[0]))
				if err != nil {
					return err
				}
				if len(nodes) == 0 {
					fmt.Println("empty hierarchy")
					return nil
				}
				for _, node := range nodes {
					printTree(node, 0)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func printTree(node service.TreeNode, depth int) {
	fmt.Printf("%s%s  %s\n", strings.Repeat("  ", depth), node.Entity.Key(), node.Entity.Name())
	for _, child := range node.Children {
		printTree(child, depth+1)
	}
}

// withClient loads config, opens a client, runs fn, and closes the client.
func withClient(ctx context.Context, envFile string, fn func(context.Context, *archmap.Client) error) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close client", slog.Any("error", err))
		}
	}()

	return fn(ctx, client)
}
