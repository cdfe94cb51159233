package engine

import (
	"fmt"
	"regexp"
)

// The editor fragment declares the plugin identifier in three places: the
// plugin entry's name, the colorscheme activation command, and the
// framework entry's colorscheme option. They must all agree or the editor
// activates a different theme than the one configured.
var (
	pluginNameRe  = regexp.MustCompile(`name\s*=\s*"([^"]+)"`)
	colorschemeRe = regexp.MustCompile(`vim\.cmd\("colorscheme ([^"]+)"\)`)
	frameworkRe   = regexp.MustCompile(`colorscheme\s*=\s*"([^"]+)"`)
)

// CheckConsistency verifies that a rendered editor fragment activates the
// same colorscheme it declares. It extracts the plugin name, the
// colorscheme command argument, and the framework colorscheme option and
// requires all three to agree.
func CheckConsistency(rendered []byte) error {
	name, err := extractOne(pluginNameRe, rendered, "plugin name")
	if err != nil {
		return err
	}
	command, err := extractOne(colorschemeRe, rendered, "colorscheme command")
	if err != nil {
		return err
	}
	option, err := extractOne(frameworkRe, rendered, "framework colorscheme option")
	if err != nil {
		return err
	}

	if command != name {
		return fmt.Errorf("colorscheme command activates %q but plugin is named %q", command, name)
	}
	if option != name {
		return fmt.Errorf("framework colorscheme option is %q but plugin is named %q", option, name)
	}
	return nil
}

func extractOne(re *regexp.Regexp, content []byte, what string) (string, error) {
	m := re.FindSubmatch(content)
	if m == nil {
		return "", fmt.Errorf("fragment declares no %s", what)
	}
	return string(m[1]), nil
}
