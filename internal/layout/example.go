package layout

// Example is the profile written when a new profile is created: a 70% column
// split in two rows, a 25% column split in two halves and a 5% strip.
const Example = `nodes:
  - type: vertical
    nodes:
      - width: 70
        type: horizontal
        nodes:
          - width: 60
            type: window
          - width: 40
            type: window
      - width: 25
        type: vertical
        nodes:
          - width: 50
            type: window
          - width: 50
            type: window
      - width: 5
        type: window
`
