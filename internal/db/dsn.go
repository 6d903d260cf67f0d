package db

import (
	"net/url"
	"regexp"
	"strings"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// IsPostgres reports whether dsn targets postgres (URL or lib/pq key=value list).
// Anything else is treated as a sqlite database path.
func IsPostgres(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return true
	}
	return kvPairRegex.MatchString(dsn) && strings.Contains(dsn, " ")
}

// NormalizeDSN trims quotes and whitespace. Postgres key=value lists get
// collapsed spacing and a default sslmode=disable.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" || !IsPostgres(s) {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// ToURLDSN builds a URL style DSN from key=value (golang-migrate only accepts URLs).
func ToURLDSN(kvDSN string) string {
	if kvDSN == "" {
		return kvDSN
	}
	lower := strings.ToLower(kvDSN)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return kvDSN
	}
	m := map[string]string{}
	for _, part := range strings.Fields(kvDSN) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 {
			m[strings.ToLower(kv[0])] = kv[1]
		}
	}
	host, port, user, pass, dbname := m["host"], m["port"], m["user"], m["password"], m["dbname"]
	if host == "" || user == "" || dbname == "" {
		return kvDSN
	}
	u := &url.URL{Scheme: "postgres", Host: host}
	if port != "" {
		u.Host = host + ":" + port
	}
	if pass != "" {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}
	u.Path = "/" + dbname
	q := url.Values{}
	if sslm, ok := m["sslmode"]; ok {
		q.Set("sslmode", sslm)
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// SQLiteDSN enables foreign key enforcement on a sqlite path or file: URI.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=1"
}

// MigrateURL returns the golang-migrate database URL for dsn.
func MigrateURL(dsn string) string {
	if IsPostgres(dsn) {
		return ToURLDSN(NormalizeDSN(dsn))
	}
	return "sqlite3://" + strings.TrimPrefix(SQLiteDSN(dsn), "file:")
}

// MaskDSN hides the password of a postgres DSN for logging.
func MaskDSN(dsn string) string {
	masked := regexp.MustCompile(`(password=)([^\s]+)`).ReplaceAllString(dsn, `${1}***`)
	if u, err := url.Parse(masked); err == nil && u.User != nil {
		if _, has := u.User.Password(); has {
			u.User = url.UserPassword(u.User.Username(), "***")
			return u.String()
		}
	}
	return masked
}
