package console

import (
	"context"

	"github.com/bradenaw/juniper/xslices"
	"github.com/go-resty/resty/v2"
)

// GroupOption is a selectable group, as presented by a group picker.
type GroupOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// GetGroups lists the group names known to the server.
func (c *Client) GetGroups(ctx context.Context) ([]string, error) {
	var res envelope[[]string]

	if err := c.do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&res).Get("/api/group/")
	}); err != nil {
		return nil, err
	}

	if !res.Success {
		return nil, apiErr(res.Message)
	}

	return res.Data, nil
}

// GetGroupOptions lists the group names known to the server, mapped 1:1 into
// selectable options.
func (c *Client) GetGroupOptions(ctx context.Context) ([]GroupOption, error) {
	groups, err := c.GetGroups(ctx)
	if err != nil {
		return nil, err
	}

	return xslices.Map(groups, func(group string) GroupOption {
		return GroupOption{Label: group, Value: group}
	}), nil
}
