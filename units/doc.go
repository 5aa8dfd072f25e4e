/*
Package units provides length values for layout options.

Options like the minimum spacing between an equation and its tag are given
as strings in TeX/CSS notation ("0.8em", "10pt", "85%"). ParseLength turns
them into an option type, which may be inspected by matching:

    var du dimen.DU
    switch m := l.Match(); m {
    case m.Just(&du):
        // absolute length
    case m.FontRelative(&x, &unit):
        // depends on the font at rendering time
    }

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package units
