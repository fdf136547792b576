package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/app"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/spf13/cobra"
)

func newListingsCmd(opts *rootOptions) *cobra.Command {
	var (
		query, category, kind, city, area string
		minPrice, maxPrice               int64
		minBedrooms                      int
	)
	cmd := &cobra.Command{
		Use:   "listings",
		Short: "List listings matching a search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var c domain.Criteria
			flags := cmd.Flags()
			if flags.Changed("category") {
				c.Category = domain.Ptr(domain.Category(category))
			}
			if flags.Changed("type") {
				c.Transaction = domain.Ptr(domain.TransactionKind(kind))
			}
			if flags.Changed("city") {
				c.City = domain.Ptr(city)
			}
			if flags.Changed("min-price") {
				c.MinPrice = domain.Ptr(minPrice)
			}
			if flags.Changed("max-price") {
				c.MaxPrice = domain.Ptr(maxPrice)
			}
			if flags.Changed("min-bedrooms") {
				c.MinBedrooms = domain.Ptr(minBedrooms)
			}
			if flags.Changed("area") {
				c.Area = domain.Ptr(area)
			}

			return withApp(cmd, opts, func(a *app.App) error {
				a.Store.SetQuery(query)
				if err := a.Store.MergeFilters(c); err != nil {
					return err
				}
				return printListings(cmd.OutOrStdout(), a, a.Store.VisibleListings())
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&query, "query", "q", "", "free text matched against title, city, neighborhood and category")
	f.StringVar(&category, "category", "", "villa|apartment|land|office|studio|house|commercial")
	f.StringVar(&kind, "type", "", "sale|rental")
	f.StringVar(&city, "city", "", "exact city name")
	f.Int64Var(&minPrice, "min-price", 0, "minimum price")
	f.Int64Var(&maxPrice, "max-price", 0, "maximum price")
	f.IntVar(&minBedrooms, "min-bedrooms", 0, "minimum number of bedrooms")
	f.StringVar(&area, "area", "", "geohash prefix the listing must be located in")
	return cmd
}

func printListings(w io.Writer, a *app.App, listings []domain.Listing) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tTYPE\tCITY\tPRICE\tBEDS\tFAV")
	for _, l := range listings {
		fav := ""
		if a.Store.Session.IsFavorite(l.ID) {
			fav = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			l.ID, l.Title, l.Category, l.Transaction, l.City, l.Price, l.Bedrooms, fav)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d listing(s)\n", len(listings))
	return err
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one listing and its agent, counting a view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				if _, err := a.Store.Catalog.IncrementView(cmd.Context(), args[0]); err != nil {
					return err
				}
				l, err := a.Store.Catalog.Listing(args[0])
				if err != nil {
					return err
				}
				out := struct {
					Listing  domain.Listing `json:"listing"`
					Agent    *domain.Agent  `json:"agent,omitempty"`
					Favorite bool           `json:"favorite"`
				}{Listing: l, Favorite: a.Store.Session.IsFavorite(l.ID)}
				if agent, err := a.Store.Catalog.AgentOf(l.ID); err == nil {
					out.Agent = &agent
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
}

func newFavoriteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle a listing in the favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				on, err := a.Store.Session.ToggleFavorite(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				verb := "removed from"
				if on {
					verb = "added to"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "listing %s %s favorites\n", args[0], verb)
				return nil
			})
		},
	}
}

func newFavoritesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List favorite listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				return printListings(cmd.OutOrStdout(), a, a.Store.FavoriteListings())
			})
		},
	}
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Log in with a catalog credential",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				if err := a.Store.Session.Login(cmd.Context(), args[0], args[1]); err != nil {
					if errors.Is(err, domain.ErrInvalidCredentials) {
						return errors.New("login failed: wrong email or password")
					}
					return err
				}
				u := a.Store.Session.CurrentUser()
				fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", u.Name, u.Role)
				return nil
			})
		},
	}
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out, keeping favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				a.Store.Session.Logout(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "logged out")
				return nil
			})
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				u := a.Store.Session.CurrentUser()
				if u == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "anonymous")
					return nil
				}
				return printJSON(cmd.OutOrStdout(), u)
			})
		},
	}
}

func newLikeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "like <id>",
		Short: "Like a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				n, err := a.Store.Catalog.IncrementLike(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "listing %s now has %d like(s)\n", args[0], n)
				return nil
			})
		},
	}
}

func newShareCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "share <id>",
		Short: "Share a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				n, err := a.Store.Catalog.IncrementShare(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "listing %s now has %d share(s)\n", args[0], n)
				return nil
			})
		},
	}
}

func newOptionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print the values the filters can take",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				return printJSON(cmd.OutOrStdout(), a.Store.Catalog.FilterOptions())
			})
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var agentID string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				if agentID != "" {
					if _, err := a.Store.Catalog.Agent(agentID); err != nil {
						return err
					}
				}
				return printJSON(cmd.OutOrStdout(), a.Store.Catalog.Stats(agentID))
			})
		},
	}
	cmd.Flags().StringVar(&agentID, "agent", "", "restrict to one agent's listings")
	return cmd
}
