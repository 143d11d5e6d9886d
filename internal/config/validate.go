package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	// Validate server configuration
	if c.Server.Addr == "" {
		return errors.New("server address cannot be empty")
	}
	if _, err := net.ResolveTCPAddr("tcp", c.Server.Addr); err != nil {
		return fmt.Errorf("invalid server address: %v", err)
	}
	if _, err := url.ParseRequestURI(c.Server.BaseURL); err != nil {
		return fmt.Errorf("invalid server base_url: %v", err)
	}

	if c.Database.Path == "" {
		return errors.New("database path cannot be empty")
	}

	if c.Session.CookieName == "" {
		return errors.New("session cookie_name cannot be empty")
	}
	if c.Session.TTLHours <= 0 {
		return errors.New("session ttl_hours must be positive")
	}

	// Validate workflow configuration
	if c.Workflow.URL == "" {
		return errors.New("workflow url cannot be empty")
	}
	if u, err := url.Parse(c.Workflow.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid workflow url: %s", c.Workflow.URL)
	}
	if c.Workflow.Secret == "" {
		return errors.New("workflow secret cannot be empty")
	}

	// Validate object storage configuration
	if c.Objects.Enabled {
		if c.Objects.Endpoint == "" {
			return errors.New("objects endpoint cannot be empty when objects storage is enabled")
		}
		if c.Objects.AccessKey == "" {
			return errors.New("objects access key cannot be empty when objects storage is enabled")
		}
		if c.Objects.SecretKey == "" {
			return errors.New("objects secret key cannot be empty when objects storage is enabled")
		}
		if !isValidBucketName(c.Objects.Bucket) {
			return fmt.Errorf("invalid objects bucket name: %s", c.Objects.Bucket)
		}
	}

	if c.Upload.MaxSizeMB <= 0 {
		return errors.New("upload max_size_mb must be positive")
	}

	return nil
}

// isValidBucketName checks if a bucket name is valid according to MinIO/S3 rules
func isValidBucketName(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	return regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*[a-z0-9]$`).MatchString(name)
}
