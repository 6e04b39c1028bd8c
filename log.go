/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package tableau

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger receives debug output about solving. Both *logrus.Logger and
// *logrus.Entry satisfy it.
type Logger = logrus.FieldLogger

func discardLogger() Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}
