/*
Package mapping provides the cleaning rules for address tags.

A Mapping holds the table of street type abbreviations and their expansions,
the list of street types that are expected as the first word of a street
name and the canonical state abbreviation and name.

The default Mapping is built in. A rules file (.yaml) can replace each of the
tables. Missing tables keep their defaults.
*/
package mapping
