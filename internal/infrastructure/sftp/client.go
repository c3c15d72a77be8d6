// Package sftp provides the remote file-transfer session used to retrieve
// stored attachments. The session is opened once per run and shared.
package sftp

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"tixport/internal/shared/config"
)

// ErrNotExist is returned by Download when the remote path is absent.
var ErrNotExist = fs.ErrNotExist

// Client wraps an SSH connection and its SFTP subsystem.
type Client struct {
	sshClient  *ssh.Client
	sftpClient *sftp.Client
}

// Connect dials the storage host and opens an SFTP session. Authentication
// uses the configured private key when present, password otherwise.
func Connect(cfg *config.SFTPConfig) (*Client, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	sshConfig := &ssh.ClientConfig{
		User:            cfg.Username,
		Timeout:         timeout,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	switch {
	case cfg.PrivateKey != "":
		signer, err := ssh.ParsePrivateKey([]byte(cfg.PrivateKey))
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		sshConfig.Auth = []ssh.AuthMethod{ssh.PublicKeys(signer)}
	case cfg.Password != "":
		sshConfig.Auth = []ssh.AuthMethod{ssh.Password(cfg.Password)}
	default:
		return nil, fmt.Errorf("sftp credentials required: password or private key")
	}

	sshClient, err := ssh.Dial("tcp", cfg.GetAddr(), sshConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.GetAddr(), err)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("failed to open sftp subsystem: %w", err)
	}

	return &Client{sshClient: sshClient, sftpClient: sftpClient}, nil
}

// Stat reports whether the remote path exists.
func (c *Client) Stat(remotePath string) (os.FileInfo, error) {
	info, err := c.sftpClient.Stat(remotePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to stat %s: %w", remotePath, err)
	}
	return info, nil
}

// Download copies a remote file to a local path. A missing remote path
// returns ErrNotExist so callers can treat it as a recoverable condition.
func (c *Client) Download(remotePath, localPath string) error {
	src, err := c.sftpClient.Open(remotePath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotExist
		}
		return fmt.Errorf("failed to open remote file %s: %w", remotePath, err)
	}
	defer src.Close()

	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(localPath)
		return fmt.Errorf("failed to copy %s: %w", remotePath, err)
	}
	return nil
}

// Close releases the SFTP session and the underlying SSH connection.
func (c *Client) Close() error {
	var firstErr error
	if c.sftpClient != nil {
		if err := c.sftpClient.Close(); err != nil {
			firstErr = err
		}
	}
	if c.sshClient != nil {
		if err := c.sshClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
