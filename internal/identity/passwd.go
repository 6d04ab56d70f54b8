// Package identity resolves user names and uids against a passwd(5)-format
// file. It replaces the libc getpwnam/getpwuid/getpwent calls the lastlog
// report needs: look one user up by name or numeric id, or enumerate every
// known account.
package identity

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultPath is where accounts are read from unless overridden.
const DefaultPath = "/etc/passwd"

var ErrUnknownUser = errors.New("identity: unknown user")

// User is one account: the login name and the uid that indexes its record
// in the lastlog file.
type User struct {
	Name string
	UID  int64
}

// DB is an in-memory snapshot of a passwd file. Files are small, so the
// whole thing is parsed eagerly at Open.
type DB struct {
	users  []User
	byName map[string]User
	byUID  map[int64]User
}

// Open parses the passwd-format file at path. Blank lines, comments, and
// malformed rows are skipped rather than failing the whole file.
func Open(path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("identity: open %s: %w", path, err)
	}
	defer f.Close()

	db := &DB{
		byName: make(map[string]User),
		byUID:  make(map[int64]User),
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// name:password:uid:gid:gecos:home:shell
		fields := strings.Split(line, ":")
		if len(fields) < 3 || fields[0] == "" {
			continue
		}
		uid, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil || uid < 0 {
			continue
		}

		u := User{Name: fields[0], UID: uid}
		db.users = append(db.users, u)
		if _, dup := db.byName[u.Name]; !dup {
			db.byName[u.Name] = u
		}
		if _, dup := db.byUID[u.UID]; !dup {
			db.byUID[u.UID] = u
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("identity: read %s: %w", path, err)
	}

	return db, nil
}

// Lookup resolves s as a login name first, then as a numeric uid.
func (db *DB) Lookup(s string) (User, error) {
	if u, ok := db.byName[s]; ok {
		return u, nil
	}

	uid, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return User{}, fmt.Errorf("%w: %s", ErrUnknownUser, s)
	}
	if u, ok := db.byUID[uid]; ok {
		return u, nil
	}

	return User{}, fmt.Errorf("%w: %s", ErrUnknownUser, s)
}

// Users returns every account in file order.
func (db *DB) Users() []User {
	return db.users
}
