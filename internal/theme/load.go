package theme

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadFile reads a token file. Any format viper understands works; keys may
// sit at the top level or under a "colors" table, with or without a leading
// "--" as in CSS custom properties.
//
//	colors:
//	  success: "142.1 76.2% 36.3%"
//	  destructive: "#ef4444"
func LoadFile(path string) (Tokens, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read theme %s: %w", path, err)
	}

	tokens := make(Tokens)
	for _, key := range v.AllKeys() {
		name := strings.TrimPrefix(key, "colors.")
		name = strings.TrimPrefix(name, "--")
		tokens[name] = v.GetString(key)
	}
	return tokens, nil
}
