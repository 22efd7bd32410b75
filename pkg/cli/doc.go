/*
Package cli provides error types shared by the fleetgate commands.

Commands return a *ConfigError when a configuration file cannot be loaded
or fails validation, and a *CommandError when the command itself fails.
CommandError wraps the underlying error so callers can inspect it with
errors.Is and errors.As:

	if err := config.Initialize(path); err != nil {
		return cli.NewConfigError("", err.Error())
	}
*/
package cli
