// Package schema parses the XML structure dialect into a SchemaTree and
// serializes trees back to XML.
//
// A document is either a bare <folder>/<file> element or wrapped in a
// <schema>, <structure> or <template> root that may also carry <hooks>
// and <variables> blocks:
//
//	<schema>
//	  <folder name="%PROJECT%">
//	    <file name="readme.md">Hello from %PROJECT%</file>
//	    <if condition="USE_DOCS">
//	      <folder name="docs" />
//	    </if>
//	    <repeat count="3" as="n">
//	      <file name="chapter-%n_1%.md" />
//	    </repeat>
//	  </folder>
//	  <hooks>
//	    <hook>git init</hook>
//	  </hooks>
//	</schema>
//
// File text (including CDATA) becomes inline content; child elements of a
// generated file become its generator configuration. Unknown elements are
// skipped with a warning, structural mistakes are parse errors.
//
// The package also scans real directories into trees, the inverse of
// materialization.
package schema
