// Copyright © 2025 The guestfix authors

package guestfs

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var rePID = regexp.MustCompile(`GUESTFISH_PID=(\d+)`)

// Client drives a persistent guestfish session (--listen/--remote) against
// a single disk image.
type Client struct {
	image    string
	readonly bool
	pid      string
}

// NewClient prepares a client for image. Readonly sessions refuse all
// writes at the appliance level, which is what dry-run wants.
func NewClient(image string, readonly bool) *Client {
	return &Client{image: image, readonly: readonly}
}

func (c *Client) Launch() error {
	args := []string{"--listen", "-a", c.image}
	if c.readonly {
		args = append(args, "--ro")
	}
	cmd := exec.Command("guestfish", args...)
	cmd.Env = append(os.Environ(), "LIBGUESTFS_BACKEND=direct")
	out, err := cmd.Output()
	if err != nil {
		return errors.Wrapf(err, "failed to start guestfish session for %s", c.image)
	}
	m := rePID.FindSubmatch(out)
	if m == nil {
		return errors.Errorf("guestfish did not report a session pid: %s", strings.TrimSpace(string(out)))
	}
	c.pid = string(m[1])
	if _, err := c.run("run"); err != nil {
		return errors.Wrap(err, "failed to launch guestfs appliance")
	}
	return nil
}

func (c *Client) Close() error {
	if c.pid == "" {
		return nil
	}
	_, err := c.run("exit")
	c.pid = ""
	return err
}

func (c *Client) command(stdin []byte, args ...string) *exec.Cmd {
	cmd := exec.Command("guestfish", append([]string{"--remote=" + c.pid, "--"}, args...)...)
	cmd.Env = append(os.Environ(), "LIBGUESTFS_BACKEND=direct")
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	return cmd
}

func (c *Client) run(args ...string) (string, error) {
	if c.pid == "" {
		return "", errors.New("guestfish session is not launched")
	}
	klog.V(4).Infof("guestfish: %s", strings.Join(args, " "))
	out, err := c.command(nil, args...).CombinedOutput()
	if err != nil {
		return "", errors.Wrapf(err, "guestfish %s failed: %s", args[0], strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func (c *Client) Mount(device, mountpoint string) error {
	_, err := c.run("mount", device, mountpoint)
	return err
}

func (c *Client) MountRO(device, mountpoint string) error {
	_, err := c.run("mount-ro", device, mountpoint)
	return err
}

func (c *Client) MountWithOptions(options, device, mountpoint string) error {
	_, err := c.run("mount-options", options, device, mountpoint)
	return err
}

func (c *Client) UnmountAll() error {
	_, err := c.run("umount-all")
	return err
}

func (c *Client) IsFile(path string) bool {
	out, err := c.run("is-file", path)
	return err == nil && strings.TrimSpace(out) == "true"
}

func (c *Client) IsDir(path string) bool {
	out, err := c.run("is-dir", path)
	return err == nil && strings.TrimSpace(out) == "true"
}

// ReadFile downloads through a host-side temp file so content round-trips
// byte-exact; guestfish cat mangles trailing newlines.
func (c *Client) ReadFile(path string) ([]byte, error) {
	tmp, err := os.CreateTemp("", "guestfix-download-")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create download temp file")
	}
	tmpName := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpName)
	if _, err := c.run("download", path, tmpName); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(tmpName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read downloaded copy of %s", path)
	}
	return data, nil
}

func (c *Client) WriteFile(path string, content []byte) error {
	tmp, err := os.CreateTemp("", "guestfix-upload-")
	if err != nil {
		return errors.Wrap(err, "failed to create upload temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to stage upload content")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to stage upload content")
	}
	_, err = c.run("upload", tmpName, path)
	return err
}

func (c *Client) CopyFile(src, dst string) error {
	_, err := c.run("cp", src, dst)
	return err
}

func (c *Client) MkdirAll(path string) error {
	_, err := c.run("mkdir-p", path)
	return err
}

func (c *Client) Chmod(mode int, path string) error {
	_, err := c.run("chmod", fmt.Sprintf("%#o", mode), path)
	return err
}

func (c *Client) ListPartitions() ([]string, error) {
	out, err := c.run("list-partitions")
	if err != nil {
		return nil, err
	}
	return splitDeviceList(out), nil
}

func (c *Client) ListFilesystems() (map[string]string, error) {
	out, err := c.run("list-filesystems")
	if err != nil {
		return nil, err
	}
	return parseKeyValueLines(out, false), nil
}

func (c *Client) ListLogicalVolumes() ([]string, error) {
	out, err := c.run("lvs")
	if err != nil {
		return nil, err
	}
	return splitDeviceList(out), nil
}

func (c *Client) ResolveSymlink(path string) (string, error) {
	out, err := c.run("realpath", path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) BlockAttributes(device string) (map[string]string, error) {
	out, err := c.run("blkid", device)
	if err != nil {
		return nil, err
	}
	return parseKeyValueLines(out, true), nil
}

func (c *Client) InspectOS() (*Inspection, error) {
	out, err := c.run("inspect-os")
	if err != nil {
		return nil, err
	}
	roots := splitDeviceList(out)
	if len(roots) == 0 {
		return nil, nil
	}
	insp := &Inspection{Root: roots[0], Mountpoints: map[string]string{}}
	// Identity details are best-effort; inspection data may be partial.
	if s, err := c.run("inspect-get-product-name", insp.Root); err == nil {
		insp.Product = strings.TrimSpace(s)
	}
	if s, err := c.run("inspect-get-distro", insp.Root); err == nil {
		insp.Distro = strings.TrimSpace(s)
	}
	if s, err := c.run("inspect-get-major-version", insp.Root); err == nil {
		insp.Major, _ = strconv.Atoi(strings.TrimSpace(s))
	}
	if s, err := c.run("inspect-get-minor-version", insp.Root); err == nil {
		insp.Minor, _ = strconv.Atoi(strings.TrimSpace(s))
	}
	if s, err := c.run("inspect-get-mountpoints", insp.Root); err == nil {
		insp.Mountpoints = parseKeyValueLines(s, false)
	}
	return insp, nil
}

func (c *Client) LUKSOpen(device, name string, key []byte) error {
	if c.pid == "" {
		return errors.New("guestfish session is not launched")
	}
	// luks-open reads the key from stdin with --keys-from-stdin.
	cmd := exec.Command("guestfish", "--remote="+c.pid, "--keys-from-stdin", "--", "luks-open", device, name)
	cmd.Env = append(os.Environ(), "LIBGUESTFS_BACKEND=direct")
	cmd.Stdin = bytes.NewReader(key)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "guestfish luks-open %s failed: %s", device, strings.TrimSpace(string(out)))
	}
	return nil
}

func (c *Client) ActivateVolumeGroups() error {
	if _, err := c.run("vgscan"); err != nil {
		return err
	}
	_, err := c.run("vg-activate-all", "true")
	return err
}

func (c *Client) Sync() error {
	_, err := c.run("sync")
	return err
}
