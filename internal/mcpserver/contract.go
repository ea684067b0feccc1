package mcpserver

// FontNamingContract describes the filename contract every notation
// font file must follow to be recognised by the registries.
const FontNamingContract = `# Font Naming Contract

Every notation font file managed by fontgrove MUST be named

` + "```" + `
<family>-<size>.<type>
` + "```" + `

## Rules

1. **family** is the font family name (e.g. ` + "`" + `emmentaler` + "`" + `). Everything up
   to the last ` + "`" + `-` + "`" + ` before the size belongs to the family.
2. **size** is one of the eight design sizes ` + "`" + `11 13 14 16 18 20 23 26` + "`" + `
   (two decimal digits) or the literal ` + "`" + `brace` + "`" + ` for the oversized brace
   glyph variant.
3. **type** is one of ` + "`" + `otf` + "`" + `, ` + "`" + `svg` + "`" + `, ` + "`" + `woff` + "`" + `. No other formats are
   recognised.
4. A family is **complete** for a type when all eight sizes and the brace
   variant are present; complete overall when that holds for all three types.
5. Files not matching the contract are silently ignored during directory
   scans.

## Installation layout

OTF files install under ` + "`" + `<datadir>/fonts/otf` + "`" + `; SVG and WOFF share
` + "`" + `<datadir>/fonts/svg` + "`" + ` by convention of the engraving engine.
`
