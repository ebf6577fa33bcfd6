package discord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ErrNotACommand is returned when a message does not start with the prefix or
// names an unknown command.
var ErrNotACommand = errors.New("not a command")

// ParsePrefix turns "!lottery buy 5" into a Command using the registered
// definitions to name and type positional arguments. The last string option
// swallows the rest of the line.
func ParsePrefix(content, prefix string, defs map[string]*discordgo.ApplicationCommand) (*Command, error) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return nil, ErrNotACommand
	}

	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return nil, ErrNotACommand
	}

	def, ok := defs[strings.ToLower(fields[0])]
	if !ok {
		return nil, ErrNotACommand
	}
	cmd := &Command{
		Name:      def.Name,
		Source:    SourcePrefix,
		Options:   map[string]any{},
		Usernames: map[string]string{},
	}
	args := fields[1:]

	options := def.Options
	if hasSubcommands(def) {
		if len(args) == 0 {
			return nil, Userf("Usage: `%s%s <%s>`", prefix, def.Name, strings.Join(subcommandNames(def), "|"))
		}
		sub := findSubcommand(def, strings.ToLower(args[0]))
		if sub == nil {
			return nil, Userf("Unknown subcommand `%s`. Try one of: %s", args[0], strings.Join(subcommandNames(def), ", "))
		}
		cmd.Sub = sub.Name
		options = sub.Options
		args = args[1:]
	}

	for i, opt := range options {
		if len(args) == 0 {
			if opt.Required {
				return nil, Userf("Missing `%s`. Usage: `%s`", opt.Name, usage(prefix, cmd, options))
			}
			break
		}

		raw := args[0]
		args = args[1:]
		if opt.Type == discordgo.ApplicationCommandOptionString && i == len(options)-1 && len(args) > 0 {
			raw = raw + " " + strings.Join(args, " ")
			args = nil
		}

		v, err := convertOption(opt, raw)
		if err != nil {
			return nil, Userf("Invalid `%s`: %s", opt.Name, err.Error())
		}
		cmd.Options[opt.Name] = v
	}

	return cmd, nil
}

func convertOption(opt *discordgo.ApplicationCommandOption, raw string) (any, error) {
	switch opt.Type {
	case discordgo.ApplicationCommandOptionInteger:
		n, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a whole number", raw)
		}
		return n, nil
	case discordgo.ApplicationCommandOptionNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return f, nil
	case discordgo.ApplicationCommandOptionBoolean:
		switch strings.ToLower(raw) {
		case "true", "yes", "y", "confirm", "1":
			return true, nil
		case "false", "no", "n", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%q is not yes/no", raw)
	case discordgo.ApplicationCommandOptionUser, discordgo.ApplicationCommandOptionMentionable:
		return parseSnowflake(raw, "<@!", "<@")
	case discordgo.ApplicationCommandOptionChannel:
		return parseSnowflake(raw, "<#")
	case discordgo.ApplicationCommandOptionRole:
		return parseSnowflake(raw, "<@&")
	default:
		if len(opt.Choices) > 0 {
			for _, c := range opt.Choices {
				if strings.EqualFold(fmt.Sprint(c.Value), raw) || strings.EqualFold(c.Name, raw) {
					return fmt.Sprint(c.Value), nil
				}
			}
			return nil, fmt.Errorf("%q is not a valid choice", raw)
		}
		return raw, nil
	}
}

func parseSnowflake(raw string, prefixes ...string) (string, error) {
	id := raw
	for _, p := range prefixes {
		if strings.HasPrefix(id, p) && strings.HasSuffix(id, ">") {
			id = strings.TrimSuffix(strings.TrimPrefix(id, p), ">")
			break
		}
	}
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return "", fmt.Errorf("%q is not a mention or id", raw)
	}
	return id, nil
}

func hasSubcommands(def *discordgo.ApplicationCommand) bool {
	for _, o := range def.Options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			return true
		}
	}
	return false
}

func findSubcommand(def *discordgo.ApplicationCommand, name string) *discordgo.ApplicationCommandOption {
	for _, o := range def.Options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand && o.Name == name {
			return o
		}
	}
	return nil
}

func subcommandNames(def *discordgo.ApplicationCommand) []string {
	var names []string
	for _, o := range def.Options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			names = append(names, o.Name)
		}
	}
	return names
}

func usage(prefix string, cmd *Command, options []*discordgo.ApplicationCommandOption) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(cmd.Key())
	for _, o := range options {
		if o.Required {
			fmt.Fprintf(&b, " <%s>", o.Name)
		} else {
			fmt.Fprintf(&b, " [%s]", o.Name)
		}
	}
	return b.String()
}
