// Package examples provides reference modules demonstrating how to build
// on the variable model engine.
//
// The example modules show:
//   - Declaring groups, tables, and selectors during the setup pass
//   - Binding document values to compact native storage
//   - Event handlers for UI metadata, change reactions, and telemetry
//   - Per-row detail reconfiguration
//
// Available examples:
//   - Lighting: a fixture table with native-bound columns and an effect
//     selector with grouped options
//   - Zones: a motion-zone table with coordinate and tri-state columns and
//     row-dependent detail variables
//
// These modules can serve as templates for real device modules.
package examples
