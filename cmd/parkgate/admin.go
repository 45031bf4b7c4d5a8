package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative operations",
	Long: `Administrative operations on the parking backend.

Changes are broadcast by the backend to every gate terminal as admin
updates; running consoles show a notice and refetch on their own.`,
}

var zoneOpenCmd = &cobra.Command{
	Use:   "zone-open <zoneID>",
	Short: "Open or close a zone",
	Args:  cobra.ExactArgs(1),
	RunE:  runZoneOpen,
}

var categoryCmd = &cobra.Command{
	Use:   "category <categoryID>",
	Short: "Update the rates of a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategory,
}

var rushHourCmd = &cobra.Command{
	Use:   "rush-hour",
	Short: "Add a rush hour window",
	Args:  cobra.NoArgs,
	RunE:  runRushHour,
}

var vacationCmd = &cobra.Command{
	Use:   "vacation",
	Short: "Add a vacation period",
	Args:  cobra.NoArgs,
	RunE:  runVacation,
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage operator accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE:  runUsersList,
}

var usersCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersCreate,
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <userID>",
	Short: "Update a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersUpdate,
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <userID>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersDelete,
}

var (
	zoneOpen bool

	categoryName string
	rateNormal   float64
	rateSpecial  float64

	rushWeekDay int
	rushFrom    string
	rushTo      string

	vacationName string
	vacationFrom string
	vacationTo   string

	userName     string
	userRole     string
	userPassword string
)

func init() {
	zoneOpenCmd.Flags().BoolVar(&zoneOpen, "open", true, "open (true) or close (false) the zone")

	categoryCmd.Flags().StringVar(&categoryName, "name", "", "category name")
	categoryCmd.Flags().Float64Var(&rateNormal, "normal", 0, "hourly rate outside rush hours")
	categoryCmd.Flags().Float64Var(&rateSpecial, "special", 0, "hourly rate during rush hours and vacations")
	_ = categoryCmd.MarkFlagRequired("normal")
	_ = categoryCmd.MarkFlagRequired("special")

	rushHourCmd.Flags().IntVar(&rushWeekDay, "weekday", 0, "day of week, 0 is Sunday")
	rushHourCmd.Flags().StringVar(&rushFrom, "from", "", "start time, HH:MM")
	rushHourCmd.Flags().StringVar(&rushTo, "to", "", "end time, HH:MM")
	_ = rushHourCmd.MarkFlagRequired("from")
	_ = rushHourCmd.MarkFlagRequired("to")

	vacationCmd.Flags().StringVar(&vacationName, "name", "", "vacation name")
	vacationCmd.Flags().StringVar(&vacationFrom, "from", "", "first day, YYYY-MM-DD")
	vacationCmd.Flags().StringVar(&vacationTo, "to", "", "last day, YYYY-MM-DD")
	_ = vacationCmd.MarkFlagRequired("name")
	_ = vacationCmd.MarkFlagRequired("from")
	_ = vacationCmd.MarkFlagRequired("to")

	for _, c := range []*cobra.Command{usersCreateCmd, usersUpdateCmd} {
		c.Flags().StringVar(&userName, "name", "", "display name")
		c.Flags().StringVar(&userRole, "role", string(models.UserRoleEmployee), "role: admin or employee")
		c.Flags().StringVar(&userPassword, "password", "", "password")
	}
	_ = usersCreateCmd.MarkFlagRequired("password")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersUpdateCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	adminCmd.AddCommand(zoneOpenCmd)
	adminCmd.AddCommand(categoryCmd)
	adminCmd.AddCommand(rushHourCmd)
	adminCmd.AddCommand(vacationCmd)
	adminCmd.AddCommand(usersCmd)
}

func runZoneOpen(cmd *cobra.Command, args []string) error {
	return withApp(false, func(ctx context.Context, a *app) error {
		z, err := a.admin.SetZoneOpen(ctx, args[0], zoneOpen)
		if err != nil {
			return err
		}
		state := "closed"
		if z.Open {
			state = "open"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Zone %s is now %s\n", z.ID, state)
		return nil
	})
}

func runCategory(cmd *cobra.Command, args []string) error {
	return withApp(false, func(ctx context.Context, a *app) error {
		c, err := a.admin.UpdateCategory(ctx, args[0], models.Category{
			ID:          args[0],
			Name:        categoryName,
			RateNormal:  rateNormal,
			RateSpecial: rateSpecial,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Category %s: normal %.2f, special %.2f\n", c.ID, c.RateNormal, c.RateSpecial)
		return nil
	})
}

func runRushHour(cmd *cobra.Command, args []string) error {
	if rushWeekDay < 0 || rushWeekDay > 6 {
		return fmt.Errorf("weekday must be between 0 and 6, got %d", rushWeekDay)
	}
	return withApp(false, func(ctx context.Context, a *app) error {
		r, err := a.admin.CreateRushHour(ctx, models.RushHour{WeekDay: rushWeekDay, From: rushFrom, To: rushTo})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rush hour %s added: day %d %s-%s\n", r.ID, r.WeekDay, r.From, r.To)
		return nil
	})
}

func runVacation(cmd *cobra.Command, args []string) error {
	return withApp(false, func(ctx context.Context, a *app) error {
		v, err := a.admin.CreateVacation(ctx, models.Vacation{Name: vacationName, From: vacationFrom, To: vacationTo})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Vacation %s added: %s to %s\n", v.Name, v.From, v.To)
		return nil
	})
}

func runUsersList(cmd *cobra.Command, args []string) error {
	return withApp(false, func(ctx context.Context, a *app) error {
		users, err := a.admin.ListUsers(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tROLE")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Name, u.Role)
		}
		return w.Flush()
	})
}

func userFromFlags(username string) (models.User, error) {
	role := models.UserRole(userRole)
	if role != models.UserRoleAdmin && role != models.UserRoleEmployee {
		return models.User{}, fmt.Errorf("unknown role %q", userRole)
	}
	return models.User{
		Username: username,
		Name:     userName,
		Role:     role,
		Password: userPassword,
	}, nil
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	u, err := userFromFlags(args[0])
	if err != nil {
		return err
	}
	return withApp(false, func(ctx context.Context, a *app) error {
		created, err := a.admin.CreateUser(ctx, u)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User %s created with id %s\n", created.Username, created.ID)
		return nil
	})
}

func runUsersUpdate(cmd *cobra.Command, args []string) error {
	u, err := userFromFlags("")
	if err != nil {
		return err
	}
	return withApp(false, func(ctx context.Context, a *app) error {
		updated, err := a.admin.UpdateUser(ctx, args[0], u)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User %s updated\n", updated.ID)
		return nil
	})
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	return withApp(false, func(ctx context.Context, a *app) error {
		if err := a.admin.DeleteUser(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User %s deleted\n", args[0])
		return nil
	})
}
