package console

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// GetUser fetches another user's record by ID. Requires admin rights.
func (c *Client) GetUser(ctx context.Context, userID int) (User, error) {
	var res envelope[User]

	if err := c.do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&res).Get(fmt.Sprintf("/api/user/%v", userID))
	}); err != nil {
		return User{}, err
	}

	if !res.Success {
		return User{}, apiErr(res.Message)
	}

	return res.Data, nil
}

// GetSelfUser fetches the record of the user the client is authenticated as.
func (c *Client) GetSelfUser(ctx context.Context) (User, error) {
	var res envelope[User]

	if err := c.do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&res).Get("/api/user/self")
	}); err != nil {
		return User{}, err
	}

	if !res.Success {
		return User{}, apiErr(res.Message)
	}

	return res.Data, nil
}

// UpdateUser updates the user identified by req.ID. Requires admin rights.
func (c *Client) UpdateUser(ctx context.Context, req UpdateUserReq) error {
	var res okEnvelope

	if err := c.do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(req).SetResult(&res).Put("/api/user/")
	}); err != nil {
		return err
	}

	if !res.Success {
		return apiErr(res.Message)
	}

	return nil
}

// UpdateSelfUser updates the record of the user the client is authenticated
// as. Any ID set on the request is ignored.
func (c *Client) UpdateSelfUser(ctx context.Context, req UpdateUserReq) error {
	var res okEnvelope

	req.ID = 0

	if err := c.do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(req).SetResult(&res).Put("/api/user/self")
	}); err != nil {
		return err
	}

	if !res.Success {
		return apiErr(res.Message)
	}

	return nil
}
