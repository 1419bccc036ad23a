// Package directory implements the LDAP/AD directory client. Every call
// opens its own connection and releases it on all exit paths; raw ldap
// errors never escape the package.
package directory

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog"

	"github.com/feas-hq/allocation-system/internal/core/domain"
	"github.com/feas-hq/allocation-system/internal/infrastructure/config"
)

// Client talks to one configured directory server.
type Client struct {
	cfg    config.DirectoryConfig
	logger zerolog.Logger
}

func NewClient(cfg config.DirectoryConfig, logger zerolog.Logger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

// Authenticate binds with the user's own credentials and fetches the
// configured attribute set for the bound entry.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	bindUser, filter := c.bindName(username)

	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := conn.Bind(bindUser, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, c.classify(err)
	}

	entry, err := c.searchOne(conn, filter)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		// Bind succeeded but the entry is outside the search base; treat as
		// a credential problem rather than exposing directory layout.
		c.logger.Warn().Str("username", username).Msg("bound entry not found under search base")
		return nil, domain.ErrInvalidCredentials
	}

	identity := entryToIdentity(entry)
	return &identity, nil
}

// Reportees returns direct reports of managerDN using the service credential.
func (c *Client) Reportees(ctx context.Context, managerDN string) ([]domain.Reportee, error) {
	conn, err := c.serviceBind(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	filter := fmt.Sprintf("(manager=%s)", ldap.EscapeFilter(managerDN))
	res, err := conn.Search(c.searchRequest(filter, 0))
	if err != nil {
		return nil, c.classify(err)
	}

	reportees := make([]domain.Reportee, 0, len(res.Entries))
	for _, entry := range res.Entries {
		id := entryToIdentity(entry)
		reportees = append(reportees, domain.Reportee{
			Username:    id.Username,
			DisplayName: id.DisplayName,
			Title:       id.Title,
			Email:       id.Email,
			DN:          id.DN,
		})
	}
	return reportees, nil
}

// Browse walks the user subtree with the service credential, streaming each
// entry to fn. Paged search keeps memory bounded on large directories.
func (c *Client) Browse(ctx context.Context, fn func(domain.Identity) error) error {
	conn, err := c.serviceBind(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	res, err := conn.SearchWithPaging(c.searchRequest("(&(objectClass=user)(sAMAccountName=*))", 0), 500)
	if err != nil {
		return c.classify(err)
	}

	for _, entry := range res.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(entryToIdentity(entry)); err != nil {
			return err
		}
	}
	return nil
}

// dial opens a connection honoring the configured timeout. The caller owns
// the connection and must Close it.
func (c *Client) dial(ctx context.Context) (*ldap.Conn, error) {
	if c.cfg.Server == "" {
		return nil, domain.ErrDirectoryUnavailable
	}

	timeout := c.cfg.Timeout
	dialer := &net.Dialer{Timeout: timeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}

	url := fmt.Sprintf("ldap://%s:%d", c.cfg.Server, c.cfg.Port)
	conn, err := ldap.DialURL(url, ldap.DialWithDialer(dialer))
	if err != nil {
		return nil, c.classify(err)
	}
	conn.SetTimeout(timeout)
	return conn, nil
}

// serviceBind dials and binds with the configured service credential.
func (c *Client) serviceBind(ctx context.Context) (*ldap.Conn, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	if err := conn.Bind(c.cfg.BindDN, c.cfg.BindPassword); err != nil {
		conn.Close()
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, c.classify(err)
	}
	return conn, nil
}

// bindName builds the bind user and the matching search filter. Names with
// an @ bind as userPrincipalName; bare names get the NetBIOS domain prefix
// and search by sAMAccountName.
func (c *Client) bindName(username string) (bindUser, filter string) {
	escaped := ldap.EscapeFilter(username)
	if strings.Contains(username, "@") {
		return username, fmt.Sprintf("(userPrincipalName=%s)", escaped)
	}
	return c.cfg.DomainPrefix + `\` + username, fmt.Sprintf("(sAMAccountName=%s)", escaped)
}

func (c *Client) searchBase() string {
	if c.cfg.UserSearchBase != "" {
		return c.cfg.UserSearchBase + "," + c.cfg.BaseDN
	}
	return c.cfg.BaseDN
}

func (c *Client) searchRequest(filter string, sizeLimit int) *ldap.SearchRequest {
	return ldap.NewSearchRequest(
		c.searchBase(),
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		sizeLimit,
		int(c.cfg.Timeout.Seconds()),
		false,
		filter,
		c.cfg.Attributes,
		nil,
	)
}

func (c *Client) searchOne(conn *ldap.Conn, filter string) (*ldap.Entry, error) {
	res, err := conn.Search(c.searchRequest(filter, 1))
	if err != nil {
		// A size-limit overrun still returns the first entry.
		if !ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded) {
			return nil, c.classify(err)
		}
	}
	if res == nil || len(res.Entries) == 0 {
		return nil, nil
	}
	return res.Entries[0], nil
}

// classify converts transport errors into the domain auth sentinels. The
// original error is logged here and goes no further.
func (c *Client) classify(err error) error {
	c.logger.Warn().Err(err).Msg("directory request failed")

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ErrDirectoryTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrDirectoryTimeout
	}
	if ldap.IsErrorWithCode(err, ldap.ErrorNetwork) {
		return domain.ErrDirectoryUnavailable
	}
	return domain.ErrDirectoryUnavailable
}

func entryToIdentity(entry *ldap.Entry) domain.Identity {
	username := entry.GetAttributeValue("sAMAccountName")
	if username == "" {
		username = entry.GetAttributeValue("userPrincipalName")
	}
	return domain.Identity{
		Username:    username,
		DisplayName: entry.GetAttributeValue("cn"),
		Email:       entry.GetAttributeValue("mail"),
		Title:       entry.GetAttributeValue("title"),
		Department:  entry.GetAttributeValue("department"),
		DN:          entry.DN,
		ManagerDN:   entry.GetAttributeValue("manager"),
		Groups:      entry.GetAttributeValues("memberOf"),
	}
}
