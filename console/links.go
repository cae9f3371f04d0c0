package console

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	logsInsightsFragment = "logsV2:logs-insights"
	logGroupFragment     = "logsV2:log-groups/log-group/"
)

// Links to the CloudWatch console for one log group.
type Links struct {
	Search string
	Source string
}

// LinkBuilder derives console deep links. When a portal subdomain is set the
// links go through the AWS access portal so the user is signed in to the
// right account first.
type LinkBuilder struct {
	accountID string
	base      url.URL
	portal    *url.URL
}

func NewLinkBuilder(accountID, region, portalSubdomain string) (*LinkBuilder, error) {
	var errs []error
	if accountID == "" {
		errs = append(errs, errors.New("account ID is required to build console links"))
	}
	if region == "" {
		errs = append(errs, errors.New("region is required to build console links"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	base, err := url.Parse(fmt.Sprintf("https://%s.console.aws.amazon.com/cloudwatch/home", region))
	if err != nil {
		return nil, fmt.Errorf("invalid region %q, err: %w", region, err)
	}
	base.RawQuery = url.Values{"region": {region}}.Encode()

	b := &LinkBuilder{accountID: accountID, base: *base}

	if sub := strings.TrimSpace(portalSubdomain); sub != "" {
		portal, err := url.Parse(fmt.Sprintf("https://%s.awsapps.com/start/#/console", sub))
		if err != nil {
			return nil, fmt.Errorf("invalid access portal subdomain %q, err: %w", sub, err)
		}
		b.portal = portal
	}
	return b, nil
}

func (b *LinkBuilder) Links(logGroup string) Links {
	search := b.withFragment(logsInsightsFragment, logsInsightsFragment)
	source := b.withFragment(logGroupFragment+logGroup, logGroupFragment+url.PathEscape(logGroup))
	return Links{
		Search: b.wrap(search),
		Source: b.wrap(source),
	}
}

func (b *LinkBuilder) withFragment(fragment, rawFragment string) string {
	u := b.base
	u.Fragment = fragment
	u.RawFragment = rawFragment
	return u.String()
}

func (b *LinkBuilder) wrap(destination string) string {
	if b.portal == nil {
		return destination
	}
	u := *b.portal
	q := u.Query()
	q.Set("account_id", b.accountID)
	q.Set("destination", destination)
	u.RawQuery = q.Encode()
	return u.String()
}
