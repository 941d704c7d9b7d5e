package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var commonFlagAliases = map[string]string{
	"desc": "description",
	"cat":  "category",
	"prio": "priority",
}

func addCommonFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		setFlagAliases(cmd.Flags(), commonFlagAliases)
	}
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}

	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		return normalize(f, name)
	})
}

func init() {
	addCommonFlagAliases(addCmd, updateCmd, listCmd, templateCreateCmd, templateUpdateCmd)
}
