package handlers

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/mbrennan-au/ccsteer/internal/config"
)

// ConfigValidate loads the configuration at path and reports whether it
// describes a usable target environment. Defaults are applied before
// validation, so the summary shows the effective values.
func ConfigValidate(w io.Writer, path string, log logr.Logger) error {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}

	log.V(1).Info("configuration loaded",
		"region", cfg.Region,
		"datacenter", cfg.Datacenter,
		"networkDomain", cfg.NetworkDomain,
		"vlan", cfg.VLAN,
		"gateway", cfg.Gateway.Name)

	s := newPlanStyles(styledOutput())
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.done.Render(fmt.Sprintf("  %s is valid.", path)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    Region:          %s\n", cfg.Region)
	fmt.Fprintf(w, "    Datacenter:      %s\n", cfg.Datacenter)
	fmt.Fprintf(w, "    Network domain:  %s\n", cfg.NetworkDomain)
	fmt.Fprintf(w, "    VLAN:            %s\n", cfg.VLAN)
	fmt.Fprintf(w, "    Gateway:         %s (%s)\n", cfg.Gateway.Name, cfg.Gateway.Image)
	return nil
}
