// Package git provides git and GitHub operations for syncer.
// This file implements the repository contents API (upload, list, download).
package git

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dev-users/syncer/internal/ctxutil"
	syncererrors "github.com/dev-users/syncer/internal/errors"
)

// UploadFile creates or updates a file on the given branch via the
// contents API. An existing file at the path is overwritten in place.
func (r *CLIHubRunner) UploadFile(ctx context.Context, path, branch, message string, content []byte) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("file path cannot be empty: %w", syncererrors.ErrEmptyValue)
	}
	if branch == "" {
		return fmt.Errorf("branch cannot be empty: %w", syncererrors.ErrEmptyValue)
	}

	args := []string{
		"api", "--method", "PUT", r.apiPath("/contents/" + path),
		"-f", "message=" + message,
		"-f", "branch=" + branch,
		"-f", "content=" + base64.StdEncoding.EncodeToString(content),
	}

	// The contents API requires the current blob SHA to update an
	// existing file.
	if sha, err := r.fileSHA(ctx, path, branch); err == nil && sha != "" {
		args = append(args, "-f", "sha="+sha)
	}

	if _, err := r.gh(ctx, args...); err != nil {
		return fmt.Errorf("failed to upload %q to branch %q: %w: %w",
			path, branch, syncererrors.ErrGitHubOperation, err)
	}

	r.logger.Info().
		Str("path", path).
		Str("branch", branch).
		Int("bytes", len(content)).
		Msg("file uploaded")
	return nil
}

// fileSHA returns the blob SHA of a file on a ref, or empty when the file
// does not exist.
func (r *CLIHubRunner) fileSHA(ctx context.Context, path, ref string) (string, error) {
	output, err := r.gh(ctx, "api", r.apiPath("/contents/"+path)+"?ref="+ref, "--jq", ".sha")
	if err != nil {
		if classifyHubError(err) == HubErrorNotFound {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// ListDir lists the entries at path on the given ref via the contents API.
func (r *CLIHubRunner) ListDir(ctx context.Context, path, ref string) ([]RemoteFile, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	apiPath := r.apiPath("/contents/" + strings.TrimPrefix(path, "/"))
	if ref != "" {
		apiPath += "?ref=" + ref
	}

	output, err := r.gh(ctx, "api", apiPath)
	if err != nil {
		if classifyHubError(err) == HubErrorNotFound {
			return nil, fmt.Errorf("path %q on %q: %w", path, ref, syncererrors.ErrVaultNotFound)
		}
		return nil, fmt.Errorf("failed to list %q: %w: %w", path, syncererrors.ErrGitHubOperation, err)
	}

	var files []RemoteFile
	if err := json.Unmarshal(output, &files); err != nil {
		// A file path returns a single object instead of an array.
		var single RemoteFile
		if err2 := json.Unmarshal(output, &single); err2 != nil {
			return nil, fmt.Errorf("failed to parse contents listing: %w", err)
		}
		files = []RemoteFile{single}
	}
	return files, nil
}

// DownloadFile fetches raw file content from the given ref.
func (r *CLIHubRunner) DownloadFile(ctx context.Context, path, ref string) ([]byte, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty: %w", syncererrors.ErrEmptyValue)
	}

	apiPath := r.apiPath("/contents/" + strings.TrimPrefix(path, "/"))
	if ref != "" {
		apiPath += "?ref=" + ref
	}

	output, err := r.gh(ctx, "api", apiPath, "-H", "Accept: application/vnd.github.raw+json")
	if err != nil {
		if classifyHubError(err) == HubErrorNotFound {
			return nil, fmt.Errorf("file %q on %q: %w", path, ref, syncererrors.ErrVaultNotFound)
		}
		return nil, fmt.Errorf("failed to download %q: %w: %w", path, syncererrors.ErrGitHubOperation, err)
	}

	return output, nil
}
