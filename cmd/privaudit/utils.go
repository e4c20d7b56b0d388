package privaudit

import "time"

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

// pickStrings returns the first list that is set. Nil means "use defaults".
func pickStrings(local, global []string) []string {
	if local != nil {
		return local
	}
	return global
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}

func pickDuration(cli time.Duration, local, global *string) (time.Duration, error) {
	if cli > 0 {
		return cli, nil
	}
	for _, s := range []*string{local, global} {
		if s != nil && *s != "" {
			return time.ParseDuration(*s)
		}
	}
	return 0, nil
}
