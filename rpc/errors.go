package rpc

import (
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/abiparam/abi"
	"xdao.co/abiparam/model"
	"xdao.co/abiparam/param"
	"xdao.co/abiparam/paramtype"
	"xdao.co/abiparam/storage"
)

// Status messages carry a model.CodedError rendering ("CODE: message") so
// clients can recover the code without status details.
func statusError(c codes.Code, code model.ErrorCode, msg string) error {
	return status.Error(c, model.NewError(code, msg).Error())
}

// mapErr converts a domain error to a status. invalid is the code reported
// for rejected input.
func mapErr(err error, invalid model.ErrorCode) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return statusError(codes.NotFound, model.ErrNotFound, err.Error())
	case errors.Is(err, storage.ErrInvalidCID):
		return statusError(codes.InvalidArgument, model.ErrInvalidCID, err.Error())
	case errors.Is(err, storage.ErrCIDMismatch), errors.Is(err, abi.ErrNotCanonical):
		return statusError(codes.DataLoss, model.ErrCIDMismatch, err.Error())
	case isInputError(err):
		return statusError(codes.InvalidArgument, invalid, err.Error())
	default:
		return statusError(codes.Internal, model.ErrInternal, err.Error())
	}
}

func isInputError(err error) bool {
	var pe *param.Error
	var te *paramtype.Error
	return errors.As(err, &pe) ||
		errors.As(err, &te) ||
		errors.Is(err, abi.ErrMalformed) ||
		errors.Is(err, abi.ErrEntryType) ||
		errors.Is(err, abi.ErrEntryName)
}

// mapRPC reverses mapErr on the client side. Storage conditions come back as
// the storage sentinels; everything else as a *model.CodedError.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	coded := parseCoded(st.Message())
	switch {
	case st.Code() == codes.NotFound:
		return storage.ErrNotFound
	case st.Code() == codes.DataLoss:
		return storage.ErrCIDMismatch
	case coded != nil && coded.Code == model.ErrInvalidCID:
		return storage.ErrInvalidCID
	case coded != nil:
		return coded
	default:
		return err
	}
}

func parseCoded(msg string) *model.CodedError {
	code, rest, ok := strings.Cut(msg, ": ")
	if !ok {
		return nil
	}
	switch c := model.ErrorCode(code); c {
	case model.ErrInvalidRecord, model.ErrInvalidABI, model.ErrInvalidCID,
		model.ErrMissingCAS, model.ErrNotFound, model.ErrCIDMismatch, model.ErrInternal:
		return model.NewError(c, rest)
	default:
		return nil
	}
}
