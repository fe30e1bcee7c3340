// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package smlogic

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"io/ioutil"
	"net/url"

	"github.com/pkg/errors"
)

// EncodeShare returns c as a compact string suitable for a URL query: the
// JSON form, zlib compressed, base64 encoded then query escaped.
//
func EncodeShare(c *Circuit) (string, error) {
	data, err := c.MarshalJSON()
	if err != nil {
		return "", err
	}
	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	if _, err = w.Write(data); err != nil {
		return "", errors.Wrap(err, "compress")
	}
	if err = w.Close(); err != nil {
		return "", errors.Wrap(err, "compress")
	}
	return url.QueryEscape(base64.StdEncoding.EncodeToString(b.Bytes())), nil
}

// DecodeShare reverses EncodeShare. Strings that do not decode to a circuit
// yield an error whose cause is ErrMalformed.
//
func DecodeShare(s string) (*Circuit, error) {
	unesc, err := url.QueryUnescape(s)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "share string: %v", err)
	}
	z, err := base64.StdEncoding.DecodeString(unesc)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "share string: %v", err)
	}
	r, err := zlib.NewReader(bytes.NewReader(z))
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "share string: %v (truncated?)", err)
	}
	defer r.Close()
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "share string: %v (truncated?)", err)
	}
	return Deserialize(data)
}
