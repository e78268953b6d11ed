package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
)

// AuthResult carries the outcome of a sign-in step, including the session
// blob to persist. NeedsPassword means the account has 2FA enabled and the
// intermediate session must be kept for the password step.
type AuthResult struct {
	SessionBlob   []byte
	UserID        int64
	FirstName     string
	NeedsPassword bool
}

// Authenticator drives the phone-number login flow.
type Authenticator interface {
	SendCode(ctx context.Context, phone string) (codeHash string, sessionBlob []byte, err error)
	VerifyCode(ctx context.Context, sessionBlob []byte, phone, code, codeHash string) (AuthResult, error)
	CheckPassword(ctx context.Context, sessionBlob []byte, password string) (AuthResult, error)
}

// SendCode asks Telegram to text a login code to the phone number and
// returns the code hash plus the fresh session blob the later steps need.
func (c *GotdConnector) SendCode(ctx context.Context, phone string) (string, []byte, error) {
	client, storage, err := c.newClient(ctx, nil)
	if err != nil {
		return "", nil, err
	}

	var codeHash string
	runErr := client.Run(ctx, func(ctx context.Context) error {
		sent, err := client.Auth().SendCode(ctx, phone, auth.SendCodeOptions{})
		if err != nil {
			return fmt.Errorf("send code: %w", err)
		}
		code, ok := sent.(*tg.AuthSentCode)
		if !ok {
			return fmt.Errorf("unexpected sent code response %T", sent)
		}
		codeHash = code.PhoneCodeHash
		return nil
	})
	if runErr != nil {
		return "", nil, runErr
	}

	blob, err := storage.LoadSession(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("save session blob: %w", err)
	}
	return codeHash, blob, nil
}

// VerifyCode completes sign-in with the texted code. When the account has a
// 2FA password the intermediate session is still returned so the password
// step can resume it.
func (c *GotdConnector) VerifyCode(ctx context.Context, sessionBlob []byte, phone, code, codeHash string) (AuthResult, error) {
	client, storage, err := c.newClient(ctx, sessionBlob)
	if err != nil {
		return AuthResult{}, err
	}

	var res AuthResult
	runErr := client.Run(ctx, func(ctx context.Context) error {
		authz, err := client.Auth().SignIn(ctx, phone, code, codeHash)
		if err != nil {
			if errors.Is(err, auth.ErrPasswordAuthNeeded) {
				res.NeedsPassword = true
				return nil
			}
			return fmt.Errorf("sign in: %w", err)
		}
		fillUser(&res, authz)
		return nil
	})
	if runErr != nil {
		return AuthResult{}, runErr
	}

	blob, err := storage.LoadSession(ctx)
	if err != nil {
		return AuthResult{}, fmt.Errorf("save session blob: %w", err)
	}
	res.SessionBlob = blob
	return res, nil
}

// CheckPassword finishes a 2FA login with the account password (SRP).
func (c *GotdConnector) CheckPassword(ctx context.Context, sessionBlob []byte, password string) (AuthResult, error) {
	client, storage, err := c.newClient(ctx, sessionBlob)
	if err != nil {
		return AuthResult{}, err
	}

	var res AuthResult
	runErr := client.Run(ctx, func(ctx context.Context) error {
		authz, err := client.Auth().Password(ctx, password)
		if err != nil {
			return fmt.Errorf("check password: %w", err)
		}
		fillUser(&res, authz)
		return nil
	})
	if runErr != nil {
		return AuthResult{}, runErr
	}

	blob, err := storage.LoadSession(ctx)
	if err != nil {
		return AuthResult{}, fmt.Errorf("save session blob: %w", err)
	}
	res.SessionBlob = blob
	return res, nil
}

func fillUser(res *AuthResult, authz *tg.AuthAuthorization) {
	user, ok := authz.User.AsNotEmpty()
	if !ok {
		return
	}
	res.UserID = user.ID
	if firstName, ok := user.GetFirstName(); ok {
		res.FirstName = firstName
	}
}
