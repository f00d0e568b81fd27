package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Clinton-Cochrane/mobile-grocery/pkg/recipeclient"
)

func newListCmd(g *globalFlags, out io.Writer) *cobra.Command {
	var opts recipeclient.ListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes, one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			page, err := c.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printJSON(out, page)
		},
	}
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Substring of title or description")
	cmd.Flags().StringVarP(&opts.Difficulty, "difficulty", "d", "", "Easy, Medium or Hard")
	cmd.Flags().StringVarP(&opts.Ingredient, "ingredient", "i", "", "Exact ingredient name")
	cmd.Flags().StringVarP(&opts.StartingLetter, "letter", "l", "", "Title prefix")
	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "Page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 20, "Recipes per page")
	return cmd
}

func newGetCmd(g *globalFlags, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			r, err := c.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(out, r)
		},
	}
}

func newCreateCmd(g *globalFlags, out io.Writer) *cobra.Command {
	var (
		file string
		in   recipeclient.NewRecipe
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a recipe from flags or a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &in); err != nil {
					return fmt.Errorf("parse %s: %w", file, err)
				}
			}
			if in.Title == "" {
				return fmt.Errorf("--title or --file required")
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			r, err := c.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(out, r)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the recipe")
	cmd.Flags().StringVar(&in.Title, "title", "", "Recipe title")
	cmd.Flags().StringVar(&in.Description, "description", "", "Recipe description")
	cmd.Flags().StringArrayVarP(&in.Ingredients, "ingredient", "i", nil, "Ingredient (repeatable)")
	cmd.Flags().StringArrayVar(&in.Instructions, "step", nil, "Instruction step (repeatable)")
	cmd.Flags().StringVarP(&in.Difficulty, "difficulty", "d", "", "Easy, Medium or Hard")
	cmd.Flags().StringArrayVar(&in.Tags, "tag", nil, "Tag (repeatable)")
	return cmd
}

func newUpdateCmd(g *globalFlags, out io.Writer) *cobra.Command {
	var (
		file                                string
		title, description, difficulty, url string
		ingredients, steps, tags            []string
		servings                            int
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a recipe from flags or a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u recipeclient.RecipeUpdate
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &u); err != nil {
					return fmt.Errorf("parse %s: %w", file, err)
				}
			}
			// Only flags given on the command line are sent.
			f := cmd.Flags()
			if f.Changed("title") {
				u.Title = &title
			}
			if f.Changed("description") {
				u.Description = &description
			}
			if f.Changed("difficulty") {
				u.Difficulty = &difficulty
			}
			if f.Changed("url") {
				u.URL = &url
			}
			if f.Changed("ingredient") {
				u.Ingredients = &ingredients
			}
			if f.Changed("step") {
				u.Instructions = &steps
			}
			if f.Changed("tag") {
				u.Tags = &tags
			}
			if f.Changed("servings") {
				u.Servings = &servings
			}
			if u == (recipeclient.RecipeUpdate{}) {
				return fmt.Errorf("nothing to update: pass field flags or --file")
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			r, err := c.Update(cmd.Context(), args[0], u)
			if err != nil {
				return err
			}
			return printJSON(out, r)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the fields to change")
	cmd.Flags().StringVar(&title, "title", "", "Recipe title")
	cmd.Flags().StringVar(&description, "description", "", "Recipe description, empty clears it")
	cmd.Flags().StringArrayVarP(&ingredients, "ingredient", "i", nil, "Ingredient (repeatable, replaces the list)")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "Instruction step (repeatable, replaces the list)")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "", "Easy, Medium or Hard")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag (repeatable, replaces the list)")
	cmd.Flags().StringVar(&url, "url", "", "Source URL, empty clears it")
	cmd.Flags().IntVar(&servings, "servings", 0, "Number of servings")
	return cmd
}

func newDeleteCmd(g *globalFlags, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			if err := c.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "deleted %s\n", args[0])
			return err
		},
	}
}

func newShoppingListCmd(g *globalFlags, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "shopping-list <id>...",
		Short: "Aggregate the ingredients of several recipes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			list, err := c.ShoppingList(cmd.Context(), args)
			if err != nil {
				return err
			}
			for _, it := range list.Items {
				if _, err := fmt.Fprintf(out, "%s (%d)\n", it.Ingredient, it.Count); err != nil {
					return err
				}
			}
			for _, id := range list.Missing {
				if _, err := fmt.Fprintf(out, "missing recipe %s\n", id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newHealthCmd(g *globalFlags, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show service and dependency health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			h, err := c.Health(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(out, h)
		},
	}
}
