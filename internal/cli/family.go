package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dukerupert/starcoin/internal/model"
)

func init() {
	familyCreateCmd.Flags().StringVar(&familyName, "name", "", "Family name")
	familyCreateCmd.Flags().StringVar(&parentName, "parent", "", "Name of the first parent")
	familyCreateCmd.MarkFlagRequired("name")
	familyCreateCmd.MarkFlagRequired("parent")

	memberAddCmd.Flags().StringVar(&memberFamily, "family", "", "Family ID")
	memberAddCmd.Flags().StringVar(&memberName, "name", "", "Member name")
	memberAddCmd.Flags().StringVar(&memberRole, "role", string(model.RoleChild), "parent or child")
	memberAddCmd.Flags().StringVar(&memberAvatar, "avatar", "", "Avatar emoji")
	memberAddCmd.MarkFlagRequired("family")
	memberAddCmd.MarkFlagRequired("name")

	familyCmd.AddCommand(familyCreateCmd, familyListCmd)
	memberCmd.AddCommand(memberAddCmd, memberTokenCmd)
	rootCmd.AddCommand(familyCmd, memberCmd)
}

var (
	familyName   string
	parentName   string
	memberFamily string
	memberName   string
	memberRole   string
	memberAvatar string
)

var familyCmd = &cobra.Command{
	Use:   "family",
	Short: "Manage families",
}

var familyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a family with default achievements and its first parent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		f, enr, err := a.eng.CreateFamily(familyName, parentName)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Family:  %s (%s)\n", f.Name, f.ID)
		fmt.Fprintf(out, "Parent:  %s (%s)\n", enr.Member.Name, enr.Member.ID)
		fmt.Fprintf(out, "Token:   %s\n", enr.Token)
		fmt.Fprintln(out, "Store the token now; it cannot be shown again.")
		return nil
	},
}

var familyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List families",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		families, err := a.stores.Families.List()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCREATED")
		for _, f := range families {
			fmt.Fprintf(w, "%s\t%s\t%s\n", f.ID, f.Name, f.CreatedAt.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage family members",
}

var memberAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a parent or child and print its token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		enr, err := a.eng.AddMember(memberFamily, memberName, model.Role(memberRole), memberAvatar)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Member:  %s (%s, %s)\nToken:   %s\n",
			enr.Member.Name, enr.Member.Role, enr.Member.ID, enr.Token)
		return nil
	},
}

var memberTokenCmd = &cobra.Command{
	Use:   "token <member-id>",
	Short: "Issue a new token for a member, revoking the old one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		m, err := a.stores.Members.GetByID(args[0])
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("member %s not found", args[0])
		}
		token, err := a.eng.IssueToken(m.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token:   %s\n", token)
		return nil
	},
}
