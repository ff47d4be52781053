// SPDX-License-Identifier: MIT
package yamlstore_test

const diagYAML = `
processes:
  - {name: Steel, id: P1}
  - {name: Power, id: P2}
technology:
  - {flow: steel, flow_id: F1, cells: [{value: 2, unit: kg}, {}]}
  - {flow: electricity, flow_id: F2, cells: [{}, {value: 3, unit: kWh}]}
intervention:
  - {flow: ch4, code: E2, unit: kg, values: [2, 0]}
  - {flow: co2, code: E1, unit: kg, values: [1, 1]}
characterization:
  - {flow: co2, factors: {GWP: 1}}
  - {flow: ch4, factors: {GWP: 2}}
`
